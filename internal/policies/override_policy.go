package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/types"
)

const (
	ActionForce   = "force"
	ActionRelax   = "relax"
	ActionReplace = "replace"
	ActionBlock   = "block"
)

// ApplyOverride rewrites a declaration according to a directive and
// returns the audit record to emit alongside the lock.
func ApplyOverride(decl types.Declaration, directive types.OverrideDirective) (types.Declaration, types.ResolutionRecord, error) {
	record := types.ResolutionRecord(directive)

	switch strings.ToLower(directive.Action) {
	case ActionForce:
		if directive.Value == "" {
			return types.Declaration{}, record, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("force directive requires value")
		}
		decl.Constraints = []types.Constraint{{
			Name:    decl.Name,
			Op:      types.ConstraintOpEq2,
			Version: directive.Value,
			Source:  "override:force",
		}}
		return decl, record, nil
	case ActionRelax:
		decl.Constraints = nil
		return decl, record, nil
	case ActionReplace:
		if directive.Value == "" {
			return types.Declaration{}, record, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("replace directive requires value")
		}
		decl.Name = directive.Value
		decl.Constraints = nil
		return decl, record, nil
	case ActionBlock:
		return types.Declaration{}, record, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("declaration blocked by directive: %s", decl.Name))
	default:
		return types.Declaration{}, record, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown override action: %s", directive.Action))
	}
}
