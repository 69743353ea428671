package types

// DebianMapping maps a pip package name to the Debian package that
// ships it, with an optional version constraint in Debian version
// syntax.
//
// Keys are normalized pip names such as "numpy" or "pyopengl"; values
// name the system package, e.g. "python3-numpy".
type DebianMapping struct {
	// Package is the Debian package name.
	Package string `yaml:"package"`

	// Version is an optional version constraint string, e.g. ">=1.21".
	// If empty, any available version qualifies.
	Version string `yaml:"version,omitempty"`
}

// DebianMappingFile is the top-level structure of a mapping.yaml file.
// Multiple files can be layered; later files override earlier ones on
// a per-key basis.
type DebianMappingFile struct {
	// MappingVersion identifies the file format version.
	MappingVersion string `yaml:"mapping_version"`

	// Suite optionally names the Debian/Ubuntu suite this mapping was
	// authored against, e.g. "noble".
	Suite string `yaml:"suite,omitempty"`

	Mappings map[string]DebianMapping `yaml:"mappings"`
}
