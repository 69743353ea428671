package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"reqlock/internal/types"
)

// versionSelector picks compatible versions under one ecosystem's
// version semantics (PEP 440 for PyPI, dpkg ordering for Debian).
// Parsed versions and specifier sets are memoized, so one selector can
// be reused across the declarations of a lock or export run.
type versionSelector struct {
	ecosystem types.Ecosystem

	pep  map[string]pep440.Version
	spec map[string]pep440.Specifiers
	deb  map[string]debversion.Version
}

func newVersionSelector(ecosystem types.Ecosystem) *versionSelector {
	return &versionSelector{
		ecosystem: ecosystem,
		pep:       map[string]pep440.Version{},
		spec:      map[string]pep440.Specifiers{},
		deb:       map[string]debversion.Version{},
	}
}

// preparedConstraint is one pre-parsed constraint: a PEP 440 specifier
// set for PyPI, an operator plus parsed version for Debian.
type preparedConstraint struct {
	op  types.ConstraintOp
	pep pep440.Specifiers
	deb debversion.Version
}

// Pick selects the highest version from available that satisfies all
// constraints. A nil constraint slice accepts every candidate.
func (s *versionSelector) Pick(name string, constraints []types.Constraint, available []string) (string, error) {
	if len(available) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no available versions for %s", name))
	}
	prepared, err := s.prepare(constraints)
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, version := range available {
		ok, err := s.satisfies(version, prepared)
		if err != nil {
			return "", err
		}
		if ok {
			candidates = append(candidates, version)
		}
	}
	if len(candidates) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no compatible version for %s", name))
	}
	sort.Slice(candidates, func(i, j int) bool {
		return s.compare(candidates[i], candidates[j]) > 0
	})
	return candidates[0], nil
}

// prepare parses each constraint's version string upfront so it can be
// reused across candidate comparisons.
func (s *versionSelector) prepare(constraints []types.Constraint) ([]preparedConstraint, error) {
	var out []preparedConstraint
	for _, constraint := range constraints {
		if constraint.Op == types.ConstraintOpNone {
			continue
		}
		switch s.ecosystem {
		case types.EcosystemPyPI:
			spec, err := s.pepSpec(toPep440Spec(constraint))
			if err != nil {
				return nil, err
			}
			out = append(out, preparedConstraint{op: constraint.Op, pep: spec})
		case types.EcosystemDebian:
			parsed, err := s.debVersion(constraint.Version)
			if err != nil {
				return nil, err
			}
			out = append(out, preparedConstraint{op: constraint.Op, deb: parsed})
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unsupported ecosystem")
		}
	}
	return out, nil
}

func (s *versionSelector) satisfies(version string, constraints []preparedConstraint) (bool, error) {
	if len(constraints) == 0 {
		return true, nil
	}
	switch s.ecosystem {
	case types.EcosystemPyPI:
		return s.satisfiesPep440(version, constraints)
	case types.EcosystemDebian:
		return s.satisfiesDeb(version, constraints)
	default:
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported ecosystem")
	}
}

func (s *versionSelector) satisfiesPep440(version string, constraints []preparedConstraint) (bool, error) {
	parsed, err := s.pepVersion(version)
	if err != nil {
		return false, err
	}
	for _, constraint := range constraints {
		if !constraint.pep.Check(parsed) {
			return false, nil
		}
	}
	return true, nil
}

func (s *versionSelector) satisfiesDeb(version string, constraints []preparedConstraint) (bool, error) {
	v, err := s.debVersion(version)
	if err != nil {
		return false, err
	}
	for _, constraint := range constraints {
		c := constraint.deb
		switch constraint.op {
		case types.ConstraintOpEq, types.ConstraintOpEq2:
			if !v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpGte:
			if v.LessThan(c) && !v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpLte:
			if v.GreaterThan(c) && !v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpGt:
			if !v.GreaterThan(c) {
				return false, nil
			}
		case types.ConstraintOpLt:
			if !v.LessThan(c) {
				return false, nil
			}
		default:
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unsupported constraint operator")
		}
	}
	return true, nil
}

// compare returns -1, 0, or 1 comparing two version strings under the
// selector's ecosystem. Returns 0 on parse errors.
func (s *versionSelector) compare(a string, b string) int {
	switch s.ecosystem {
	case types.EcosystemPyPI:
		v1, err := s.pepVersion(a)
		if err != nil {
			return 0
		}
		v2, err := s.pepVersion(b)
		if err != nil {
			return 0
		}
		return v1.Compare(v2)
	case types.EcosystemDebian:
		v1, err := s.debVersion(a)
		if err != nil {
			return 0
		}
		v2, err := s.debVersion(b)
		if err != nil {
			return 0
		}
		return v1.Compare(v2)
	default:
		return 0
	}
}

func (s *versionSelector) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := s.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	s.pep[value] = parsed
	return parsed, nil
}

func (s *versionSelector) pepSpec(value string) (pep440.Specifiers, error) {
	if parsed, ok := s.spec[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	s.spec[value] = parsed
	return parsed, nil
}

func (s *versionSelector) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := s.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	s.deb[value] = parsed
	return parsed, nil
}

// toPep440Spec converts an internal constraint to a PEP 440 specifier
// string (e.g. ">= 1.0", "~= 2.3").
func toPep440Spec(constraint types.Constraint) string {
	op := string(constraint.Op)
	switch constraint.Op {
	case types.ConstraintOpEq:
		op = "=="
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", op, constraint.Version))
}
