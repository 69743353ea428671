package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/shared"
	"reqlock/internal/types"
)

// namePattern is the PEP 508 package name grammar.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// ParseDeclaration parses one logical declaration line into a
// Declaration. The line must already have continuations joined and
// environment variables interpolated; source is recorded as
// provenance ("path:line").
func ParseDeclaration(raw string, source string) (types.Declaration, error) {
	body, comment := splitComment(raw)
	body = strings.TrimSpace(body)
	if body == "" {
		return types.Declaration{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty declaration")
	}

	body, marker, err := splitMarker(body)
	if err != nil {
		return types.Declaration{}, err
	}

	decl := types.Declaration{
		Marker:  marker,
		Comment: comment,
		Source:  source,
	}

	// Direct reference: "name @ url".
	if at := strings.Index(body, "@"); at >= 0 {
		decl.DirectURL = strings.TrimSpace(body[at+1:])
		body = strings.TrimSpace(body[:at])
		if decl.DirectURL == "" {
			return types.Declaration{}, declError(raw, "direct reference missing URL")
		}
	}

	name, extras, spec, err := splitNameExtrasSpec(body)
	if err != nil {
		return types.Declaration{}, declError(raw, err.Error())
	}
	if !namePattern.MatchString(name) {
		return types.Declaration{}, declError(raw, fmt.Sprintf("invalid package name: %s", name))
	}
	decl.RawName = name
	decl.Name = shared.NormalizePipName(name)
	decl.Extras = extras

	if decl.DirectURL != "" && spec != "" {
		return types.Declaration{}, declError(raw, "direct reference cannot carry a specifier set")
	}
	constraints, err := ParseSpecifierSet(decl.Name, spec, source)
	if err != nil {
		return types.Declaration{}, err
	}
	decl.Constraints = constraints
	return decl, nil
}

func declError(raw string, msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid declaration %q: %s", strings.TrimSpace(raw), msg))
}

// splitComment removes a trailing "#" comment. A comment starts only
// at the beginning of the line or after whitespace, so a "#" inside a
// URL fragment or a quoted marker string stays part of the body.
func splitComment(line string) (string, string) {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '#':
			if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
				return line[:i], strings.TrimSpace(line[i+1:])
			}
		}
	}
	return line, ""
}

// splitMarker splits off the "; marker" suffix and validates that the
// marker parses. The parsed form is discarded here; callers re-parse
// when they need to evaluate.
func splitMarker(body string) (string, string, error) {
	var quote byte
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == ';':
			marker := strings.TrimSpace(body[i+1:])
			if marker == "" {
				return "", "", errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("empty marker after ';'")
			}
			if _, err := ParseMarker(marker); err != nil {
				return "", "", err
			}
			return strings.TrimSpace(body[:i]), marker, nil
		}
	}
	return body, "", nil
}

// splitNameExtrasSpec separates "name[extras]>=1.0,<2" into its three
// parts. The specifier set may be parenthesized.
func splitNameExtrasSpec(body string) (string, []string, string, error) {
	specStart := len(body)
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch == '<' || ch == '>' || ch == '=' || ch == '!' || ch == '~' || ch == '(' || ch == ' ' || ch == '\t' {
			specStart = i
			break
		}
	}
	head := strings.TrimSpace(body[:specStart])
	spec := strings.TrimSpace(body[specStart:])

	var extras []string
	if open := strings.Index(head, "["); open >= 0 {
		if !strings.HasSuffix(head, "]") {
			return "", nil, "", fmt.Errorf("unterminated extras list")
		}
		for _, extra := range strings.Split(head[open+1:len(head)-1], ",") {
			extra = strings.TrimSpace(extra)
			if extra == "" {
				return "", nil, "", fmt.Errorf("empty extra name")
			}
			extras = append(extras, shared.NormalizePipName(extra))
		}
		head = head[:open]
	}
	if head == "" {
		return "", nil, "", fmt.Errorf("missing package name")
	}
	return head, extras, spec, nil
}

// InterpolateEnv expands ${VAR} references from the process
// environment, leaving unset variables in place the way pip does.
func InterpolateEnv(line string, lookup func(string) (string, bool)) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := lookup(name); ok {
			return value
		}
		return match
	})
}

var envVarPattern = regexp.MustCompile(`\$\{[A-Z0-9_]+\}`)
