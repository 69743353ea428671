package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// OptionKind enumerates the installer option lines the manifest format
// accepts.
type OptionKind string

const (
	OptionIndexURL      OptionKind = "index-url"
	OptionExtraIndexURL OptionKind = "extra-index-url"
	OptionTrustedHost   OptionKind = "trusted-host"
	OptionFindLinks     OptionKind = "find-links"
	OptionOnlyBinary    OptionKind = "only-binary"
	OptionNoBinary      OptionKind = "no-binary"
	OptionRequirement   OptionKind = "requirement"
	OptionConstraint    OptionKind = "constraint"
)

// Option is one parsed "--option value" (or short form) manifest line.
type Option struct {
	Kind  OptionKind
	Value string
}

// optionAliases maps every accepted spelling to its canonical kind.
var optionAliases = map[string]OptionKind{
	"-i":                OptionIndexURL,
	"--index-url":       OptionIndexURL,
	"--extra-index-url": OptionExtraIndexURL,
	"--trusted-host":    OptionTrustedHost,
	"-f":                OptionFindLinks,
	"--find-links":      OptionFindLinks,
	"--only-binary":     OptionOnlyBinary,
	"--no-binary":       OptionNoBinary,
	"-r":                OptionRequirement,
	"--requirement":     OptionRequirement,
	"-c":                OptionConstraint,
	"--constraint":      OptionConstraint,
}

// ParseOption parses an option line. Both "--opt value" and
// "--opt=value" forms are accepted.
func ParseOption(raw string) (Option, error) {
	body, _ := splitComment(raw)
	body = strings.TrimSpace(body)
	flag := body
	value := ""
	eq := strings.Index(body, "=")
	space := strings.IndexAny(body, " \t")
	// "=" is the separator only in the "--opt=value" form; a "=" inside
	// a space-form value (query strings, pins) must not split the flag.
	if eq >= 0 && strings.HasPrefix(body, "--") && (space < 0 || eq < space) {
		flag = body[:eq]
		value = strings.TrimSpace(body[eq+1:])
	} else if space >= 0 {
		flag = body[:space]
		value = strings.TrimSpace(body[space+1:])
	}
	kind, ok := optionAliases[flag]
	if !ok {
		return Option{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown installer option: %s", flag))
	}
	if value == "" {
		return Option{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("installer option %s requires a value", flag))
	}
	return Option{Kind: kind, Value: value}, nil
}

// IsOptionLine reports whether a manifest line is an installer option
// rather than a declaration.
func IsOptionLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "-")
}
