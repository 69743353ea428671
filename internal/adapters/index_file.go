package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"reqlock/internal/ports"
	"reqlock/internal/shared"
	"reqlock/internal/types"
)

// PackageIndexFileAdapter serves version lookups from an on-disk YAML
// index snapshot, loading it lazily and caching the parsed form.
type PackageIndexFileAdapter struct {
	Path   string
	cached types.PackageIndexFile
	loaded bool
}

func NewPackageIndexFileAdapter(path string) *PackageIndexFileAdapter {
	return &PackageIndexFileAdapter{Path: path}
}

func (a *PackageIndexFileAdapter) AvailableVersions(ecosystem types.Ecosystem, name string) ([]string, error) {
	index, err := a.load()
	if err != nil {
		return nil, err
	}
	switch ecosystem {
	case types.EcosystemPyPI:
		if versions, ok := index.PyPI[name]; ok && len(versions) > 0 {
			return versions, nil
		}
		normalized := shared.NormalizePipName(name)
		if normalized != name {
			return index.PyPI[normalized], nil
		}
		return index.PyPI[name], nil
	case types.EcosystemDebian:
		return index.Debian[name], nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown ecosystem")
	}
}

func (a *PackageIndexFileAdapter) load() (types.PackageIndexFile, error) {
	if a.loaded {
		return a.cached, nil
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return types.PackageIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package index file not found").
			WithCause(err)
	}
	var idx types.PackageIndexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return types.PackageIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid package index format").
			WithCause(err)
	}
	if idx.PyPI == nil {
		idx.PyPI = map[string][]string{}
	}
	if idx.Debian == nil {
		idx.Debian = map[string][]string{}
	}
	a.cached = idx
	a.loaded = true
	return idx, nil
}

var _ ports.PackageIndexPort = (*PackageIndexFileAdapter)(nil)
