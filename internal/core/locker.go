package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"reqlock/internal/policies"
	"reqlock/internal/ports"
	"reqlock/internal/shared"
	"reqlock/internal/types"
)

// LockerCore pins applicable declarations against a package index.
type LockerCore struct {
	Index ports.PackageIndexPort
}

type LockResult struct {
	Locks  []types.LockEntry
	Report types.ResolutionReport
}

func NewLockerCore(index ports.PackageIndexPort) LockerCore {
	return LockerCore{Index: index}
}

// Lock selects the best compatible version for every declaration.
// Override directives are consulted twice: upfront (force, replace,
// block rewrite the declaration before resolution) and as a second
// chance when no compatible version exists. Direct-URL declarations
// are recorded, never resolved.
func (l LockerCore) Lock(ctx context.Context, decls []types.Declaration, overrides []types.OverrideDirective) (LockResult, error) {
	if l.Index == nil {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("locker requires a package index port")
	}

	merged := mergeDeclarations(decls)
	directiveMap := mapOverrides(overrides)
	selector := newVersionSelector(types.EcosystemPyPI)

	result := LockResult{
		Report: types.ResolutionReport{Records: []types.ResolutionRecord{}},
	}

	for _, decl := range merged {
		if decl.DirectURL != "" {
			result.Report.Records = append(result.Report.Records, types.ResolutionRecord{
				Dependency: decl.Name,
				Action:     "skip",
				Value:      decl.DirectURL,
				Reason:     "direct reference is installed from its URL",
				Owner:      decl.Source,
			})
			continue
		}

		prepared, record, err := applyUpfrontOverride(decl, directiveMap)
		if err != nil {
			return LockResult{}, err
		}
		if record.Action != "" {
			result.Report.Records = append(result.Report.Records, record)
		}

		version, record, err := l.lockDeclaration(ctx, selector, prepared, directiveMap)
		if err != nil {
			return LockResult{}, err
		}
		if record.Action != "" {
			result.Report.Records = append(result.Report.Records, record)
		}

		result.Locks = append(result.Locks, types.LockEntry{
			Package: prepared.Name,
			Version: version,
			Marker:  decl.Marker,
		})
	}

	sort.Slice(result.Locks, func(i, j int) bool {
		if result.Locks[i].Package != result.Locks[j].Package {
			return result.Locks[i].Package < result.Locks[j].Package
		}
		return result.Locks[i].Marker < result.Locks[j].Marker
	})

	log.Ctx(ctx).Debug().Int("locked", len(result.Locks)).Msg("locker completed")
	return result, nil
}

func applyUpfrontOverride(decl types.Declaration, directives map[string]types.OverrideDirective) (types.Declaration, types.ResolutionRecord, error) {
	directive, ok := directives[decl.Name]
	if !ok {
		return decl, types.ResolutionRecord{}, nil
	}
	updated, record, err := policies.ApplyOverride(decl, directive)
	if err != nil {
		return types.Declaration{}, record, err
	}
	return updated, record, nil
}

func (l LockerCore) lockDeclaration(ctx context.Context, selector *versionSelector, decl types.Declaration, directives map[string]types.OverrideDirective) (string, types.ResolutionRecord, error) {
	available, err := l.Index.AvailableVersions(types.EcosystemPyPI, decl.Name)
	if err != nil {
		return "", types.ResolutionRecord{}, err
	}
	version, err := selector.Pick(decl.Name, decl.Constraints, available)
	if err == nil {
		return version, types.ResolutionRecord{}, nil
	}

	directive, ok := directives[decl.Name]
	if !ok {
		return "", types.ResolutionRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("conflict without override directive: %s", decl.Name)).
			WithCause(err)
	}

	updated, record, err := policies.ApplyOverride(decl, directive)
	if err != nil {
		return "", types.ResolutionRecord{}, err
	}

	available, err = l.Index.AvailableVersions(types.EcosystemPyPI, updated.Name)
	if err != nil {
		return "", types.ResolutionRecord{}, err
	}
	version, err = selector.Pick(updated.Name, updated.Constraints, available)
	if err != nil {
		return "", types.ResolutionRecord{}, err
	}
	log.Ctx(ctx).Debug().Str("declaration", decl.Name).Msg("override directive applied")
	return version, record, nil
}

// mergeDeclarations folds declarations sharing (name, marker) into one
// entry with the union of their constraints. Order is made
// deterministic by sorting on the merge key.
func mergeDeclarations(decls []types.Declaration) []types.Declaration {
	type key struct {
		name   string
		marker string
	}
	merged := map[key]types.Declaration{}
	var order []key
	for _, decl := range decls {
		k := key{name: decl.Name, marker: decl.Marker}
		existing, ok := merged[k]
		if !ok {
			merged[k] = decl
			order = append(order, k)
			continue
		}
		existing.Constraints = append(existing.Constraints, decl.Constraints...)
		if existing.DirectURL == "" {
			existing.DirectURL = decl.DirectURL
		}
		merged[k] = existing
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].name != order[j].name {
			return order[i].name < order[j].name
		}
		return order[i].marker < order[j].marker
	})
	out := make([]types.Declaration, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out
}

func mapOverrides(overrides []types.OverrideDirective) map[string]types.OverrideDirective {
	mapped := map[string]types.OverrideDirective{}
	for _, directive := range overrides {
		if directive.Dependency == "" {
			continue
		}
		mapped[shared.NormalizePipName(directive.Dependency)] = directive
	}
	return mapped
}
