package types

// PackageIndexFile is the on-disk YAML snapshot of available package
// versions. The pypi section drives locking; the debian section drives
// the system-package export. Versions are stored sorted ascending in
// their ecosystem's ordering.
type PackageIndexFile struct {
	PyPI   map[string][]string `yaml:"pypi"`
	Debian map[string][]string `yaml:"debian,omitempty"`
}
