package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// FormatControl is the answer for one package: which distribution
// formats the installer may use.
type FormatControl string

const (
	FormatAny        FormatControl = "any"
	FormatBinaryOnly FormatControl = "binary-only"
	FormatSourceOnly FormatControl = "source-only"
)

// BinaryPolicy compiles --only-binary / --no-binary patterns into a
// per-package matcher. Patterns are the installer's: ":all:", ":none:",
// exact names, and "prefix*" globs. Later patterns win within a list;
// --no-binary wins over --only-binary for the same package, matching
// how the options are applied in sequence.
type BinaryPolicy struct {
	onlyBinary compiledPatterns
	noBinary   compiledPatterns
}

type compiledPatterns struct {
	all      bool
	none     bool
	exact    map[string]struct{}
	prefixes []string
}

func NewBinaryPolicy(onlyBinary []string, noBinary []string) (BinaryPolicy, error) {
	only, err := compileBinaryPatterns(onlyBinary)
	if err != nil {
		return BinaryPolicy{}, err
	}
	no, err := compileBinaryPatterns(noBinary)
	if err != nil {
		return BinaryPolicy{}, err
	}
	return BinaryPolicy{onlyBinary: only, noBinary: no}, nil
}

// FormatFor returns the format control for a normalized package name.
func (p BinaryPolicy) FormatFor(name string) FormatControl {
	if p.noBinary.matches(name) {
		return FormatSourceOnly
	}
	if p.onlyBinary.matches(name) {
		return FormatBinaryOnly
	}
	return FormatAny
}

func (c compiledPatterns) matches(name string) bool {
	if c.none {
		return false
	}
	if c.all {
		return true
	}
	if _, ok := c.exact[name]; ok {
		return true
	}
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func compileBinaryPatterns(patterns []string) (compiledPatterns, error) {
	compiled := compiledPatterns{exact: map[string]struct{}{}}
	for _, raw := range patterns {
		for _, pattern := range strings.Split(raw, ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				continue
			}
			if err := ValidateBinaryPattern(pattern); err != nil {
				return compiledPatterns{}, err
			}
			switch pattern {
			case ":all:":
				compiled.all = true
				compiled.none = false
			case ":none:":
				compiled.none = true
				compiled.all = false
			default:
				if strings.HasSuffix(pattern, "*") {
					compiled.prefixes = append(compiled.prefixes, normalizeName(strings.TrimSuffix(pattern, "*")))
					continue
				}
				compiled.exact[normalizeName(pattern)] = struct{}{}
			}
		}
	}
	return compiled, nil
}

// ValidateBinaryPattern rejects patterns the installer grammar does not
// allow.
func ValidateBinaryPattern(raw string) error {
	for _, pattern := range strings.Split(raw, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || pattern == ":all:" || pattern == ":none:" {
			continue
		}
		if strings.HasPrefix(pattern, ":") || strings.HasSuffix(pattern, ":") {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid binary pattern: %s", pattern))
		}
	}
	return nil
}

func normalizeName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}
