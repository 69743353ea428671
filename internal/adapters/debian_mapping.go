package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"reqlock/internal/ports"
	"reqlock/internal/shared"
	"reqlock/internal/types"
)

// DebianMappingAdapter resolves pip names to Debian packages from one
// or more mapping files. Files layer: the last file loaded wins on a
// per-key basis, so a project mapping can override a distro-wide one.
type DebianMappingAdapter struct {
	mappings map[string]types.DebianMapping
}

func NewDebianMappingAdapter() *DebianMappingAdapter {
	return &DebianMappingAdapter{mappings: map[string]types.DebianMapping{}}
}

func (a *DebianMappingAdapter) LoadMapping(path string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("mapping file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read mapping file").
			WithCause(err)
	}
	var file types.DebianMappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse mapping file").
			WithCause(err)
	}
	for key, mapping := range file.Mappings {
		normalized := shared.NormalizePipName(key)
		if mapping.Package == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("mapping for " + normalized + " has no package")
		}
		if previous, ok := a.mappings[normalized]; ok && previous != mapping {
			log.Debug().
				Str("dependency", normalized).
				Str("previous", previous.Package).
				Str("current", mapping.Package).
				Str("file", path).
				Msg("mapping overridden by later file")
		}
		a.mappings[normalized] = mapping
	}
	return nil
}

func (a *DebianMappingAdapter) Resolve(name string) (types.DebianMapping, bool) {
	mapping, ok := a.mappings[shared.NormalizePipName(name)]
	return mapping, ok
}

// OverridesFileAdapter loads override directives from an overrides
// YAML file.
type OverridesFileAdapter struct{}

func NewOverridesFileAdapter() OverridesFileAdapter {
	return OverridesFileAdapter{}
}

func (a OverridesFileAdapter) LoadOverrides(path string) ([]types.OverrideDirective, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read overrides file").
			WithCause(err)
	}
	var file types.OverridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse overrides file").
			WithCause(err)
	}
	return file.Overrides, nil
}

var _ ports.DebianMappingPort = (*DebianMappingAdapter)(nil)
var _ ports.OverridesPort = OverridesFileAdapter{}
