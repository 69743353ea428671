package core

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"reqlock/internal/ports"
	"reqlock/internal/types"
)

// ExporterCore translates applicable pip declarations into the Debian
// packages that ship them, picking the best available system version.
type ExporterCore struct {
	Index   ports.PackageIndexPort
	Mapping ports.DebianMappingPort
}

type ExportResult struct {
	Entries []types.DebianExportEntry

	// Unmapped lists pip names with no Debian mapping; callers decide
	// whether that is an error.
	Unmapped []string
}

func NewExporterCore(index ports.PackageIndexPort, mapping ports.DebianMappingPort) ExporterCore {
	return ExporterCore{Index: index, Mapping: mapping}
}

func (e ExporterCore) Export(ctx context.Context, decls []types.Declaration) (ExportResult, error) {
	result := ExportResult{}
	seen := map[string]struct{}{}
	selector := newVersionSelector(types.EcosystemDebian)
	for _, decl := range mergeDeclarations(decls) {
		if _, dup := seen[decl.Name]; dup {
			continue
		}
		seen[decl.Name] = struct{}{}

		mapping, ok := e.Mapping.Resolve(decl.Name)
		if !ok {
			result.Unmapped = append(result.Unmapped, decl.Name)
			continue
		}
		constraints, err := ParseSpecifierSet(mapping.Package, mapping.Version, "mapping")
		if err != nil {
			return ExportResult{}, err
		}
		available, err := e.Index.AvailableVersions(types.EcosystemDebian, mapping.Package)
		if err != nil {
			return ExportResult{}, err
		}
		version, err := selector.Pick(mapping.Package, constraints, available)
		if err != nil {
			return ExportResult{}, err
		}
		result.Entries = append(result.Entries, types.DebianExportEntry{
			Package: mapping.Package,
			Version: version,
		})
	}
	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Package < result.Entries[j].Package
	})
	sort.Strings(result.Unmapped)
	log.Ctx(ctx).Debug().
		Int("exported", len(result.Entries)).
		Int("unmapped", len(result.Unmapped)).
		Msg("debian export completed")
	return result, nil
}
