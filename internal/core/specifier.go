package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/types"
)

// specOpTokens is the ordered list of specifier operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. "===" before "==" before "=").
var specOpTokens = []types.ConstraintOp{
	types.ConstraintOpArbEq,
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
	types.ConstraintOpEq,
}

// ParseSpecifierSet splits a comma-separated specifier set such as
// ">=1.2.0,<2.0" into constraints for the named package. An empty set
// yields no constraints.
func ParseSpecifierSet(name string, raw string, source string) ([]types.Constraint, error) {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "()"))
	if raw == "" {
		return nil, nil
	}
	var constraints []types.Constraint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("empty specifier in set: %s", raw))
		}
		constraint, err := parseSpecifier(name, part, source)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, constraint)
	}
	return constraints, nil
}

// parseSpecifier splits a single ">=1.2.0" token into a Constraint.
func parseSpecifier(name string, raw string, source string) (types.Constraint, error) {
	for _, op := range specOpTokens {
		if strings.HasPrefix(raw, string(op)) {
			version := strings.TrimSpace(raw[len(op):])
			if version == "" {
				return types.Constraint{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("specifier missing version: %s", raw))
			}
			return types.Constraint{
				Name:    name,
				Op:      op,
				Version: version,
				Source:  source,
			}, nil
		}
	}
	return types.Constraint{}, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("specifier missing operator: %s", raw))
}
