package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"reqlock/internal/types"
)

// Marker is a parsed environment marker expression. The zero-value
// marker (empty expression) evaluates to true for every environment.
type Marker struct {
	raw  string
	root markerNode
}

// ParseMarker parses the text after the ";" of a declaration line into
// an evaluable expression. Variable names are checked against the
// marker vocabulary at parse time.
func ParseMarker(raw string) (Marker, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Marker{}, nil
	}
	tokens, err := lexMarker(trimmed)
	if err != nil {
		return Marker{}, err
	}
	parser := markerParser{tokens: tokens}
	root, err := parser.parseOr()
	if err != nil {
		return Marker{}, err
	}
	if !parser.done() {
		return Marker{}, markerError(fmt.Sprintf("unexpected trailing input: %s", parser.peek().text))
	}
	return Marker{raw: trimmed, root: root}, nil
}

// Eval returns whether the marker holds for the given environment.
func (m Marker) Eval(env types.Environment) (bool, error) {
	if m.root == nil {
		return true, nil
	}
	return m.root.eval(env)
}

// IsEmpty reports whether the marker has no expression at all.
func (m Marker) IsEmpty() bool {
	return m.root == nil
}

func (m Marker) String() string {
	return m.raw
}

func markerError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid marker: " + msg)
}

// ---------- AST ----------

type markerNode interface {
	eval(env types.Environment) (bool, error)
}

type markerOr struct {
	terms []markerNode
}

func (n markerOr) eval(env types.Environment) (bool, error) {
	for _, term := range n.terms {
		ok, err := term.eval(env)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

type markerAnd struct {
	factors []markerNode
}

func (n markerAnd) eval(env types.Environment) (bool, error) {
	for _, factor := range n.factors {
		ok, err := factor.eval(env)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// markerOperand is either an environment variable reference or a quoted
// string literal.
type markerOperand struct {
	variable string
	literal  string
	isVar    bool
}

func (o markerOperand) value(env types.Environment) (string, error) {
	if !o.isVar {
		return o.literal, nil
	}
	value, ok := env.Lookup(o.variable)
	if !ok {
		return "", markerError("unknown variable: " + o.variable)
	}
	return value, nil
}

type markerComparison struct {
	lhs markerOperand
	op  types.MarkerOp
	rhs markerOperand
}

func (n markerComparison) eval(env types.Environment) (bool, error) {
	lhs, err := n.lhs.value(env)
	if err != nil {
		return false, err
	}
	rhs, err := n.rhs.value(env)
	if err != nil {
		return false, err
	}
	switch n.op {
	case types.MarkerOpIn:
		return strings.Contains(rhs, lhs), nil
	case types.MarkerOpNotIn:
		return !strings.Contains(rhs, lhs), nil
	case types.MarkerOpArbEq:
		return lhs == rhs, nil
	}
	if n.versionComparison() {
		ok, err := compareMarkerVersions(lhs, n.op, rhs)
		if err == nil {
			return ok, nil
		}
		// Values that are not valid PEP 440 fall back to string
		// comparison, mirroring installer behavior.
	}
	return compareMarkerStrings(lhs, n.op, rhs)
}

// versionComparison reports whether either operand references a
// version-valued variable.
func (n markerComparison) versionComparison() bool {
	for _, operand := range []markerOperand{n.lhs, n.rhs} {
		if !operand.isVar {
			continue
		}
		if _, ok := types.VersionVariables[operand.variable]; ok {
			return true
		}
	}
	return false
}

// compareMarkerVersions checks "lhs op rhs" under PEP 440. Wildcards
// such as == "3.7.*" are handled by the specifier parser.
func compareMarkerVersions(lhs string, op types.MarkerOp, rhs string) (bool, error) {
	version, err := pep440.Parse(lhs)
	if err != nil {
		return false, err
	}
	spec, err := pep440.NewSpecifiers(fmt.Sprintf("%s %s", op, rhs))
	if err != nil {
		return false, err
	}
	return spec.Check(version), nil
}

func compareMarkerStrings(lhs string, op types.MarkerOp, rhs string) (bool, error) {
	switch op {
	case types.MarkerOpEq:
		return lhs == rhs, nil
	case types.MarkerOpNe:
		return lhs != rhs, nil
	case types.MarkerOpLt:
		return lhs < rhs, nil
	case types.MarkerOpLte:
		return lhs <= rhs, nil
	case types.MarkerOpGt:
		return lhs > rhs, nil
	case types.MarkerOpGte:
		return lhs >= rhs, nil
	default:
		return false, markerError(fmt.Sprintf("operator %s requires version operands", op))
	}
}

// ---------- Lexer ----------

type markerTokenKind int

const (
	tokenVariable markerTokenKind = iota
	tokenString
	tokenOperator
	tokenLParen
	tokenRParen
	tokenAnd
	tokenOr
	tokenNot
	tokenIn
	tokenEOF
)

type markerToken struct {
	kind markerTokenKind
	text string
}

var markerOpTokens = []types.MarkerOp{
	types.MarkerOpArbEq,
	types.MarkerOpLte,
	types.MarkerOpGte,
	types.MarkerOpEq,
	types.MarkerOpNe,
	types.MarkerOpCompat,
	types.MarkerOpLt,
	types.MarkerOpGt,
}

func lexMarker(input string) ([]markerToken, error) {
	var tokens []markerToken
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case ch == '(':
			tokens = append(tokens, markerToken{kind: tokenLParen, text: "("})
			i++
		case ch == ')':
			tokens = append(tokens, markerToken{kind: tokenRParen, text: ")"})
			i++
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(input[i+1:], ch)
			if end < 0 {
				return nil, markerError("unterminated string literal")
			}
			tokens = append(tokens, markerToken{kind: tokenString, text: input[i+1 : i+1+end]})
			i += end + 2
		case isIdentByte(ch):
			start := i
			for i < len(input) && isIdentByte(input[i]) {
				i++
			}
			word := input[start:i]
			switch word {
			case "and":
				tokens = append(tokens, markerToken{kind: tokenAnd, text: word})
			case "or":
				tokens = append(tokens, markerToken{kind: tokenOr, text: word})
			case "not":
				tokens = append(tokens, markerToken{kind: tokenNot, text: word})
			case "in":
				tokens = append(tokens, markerToken{kind: tokenIn, text: word})
			default:
				tokens = append(tokens, markerToken{kind: tokenVariable, text: word})
			}
		default:
			matched := false
			for _, op := range markerOpTokens {
				if strings.HasPrefix(input[i:], string(op)) {
					tokens = append(tokens, markerToken{kind: tokenOperator, text: string(op)})
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return nil, markerError(fmt.Sprintf("unexpected character %q", ch))
			}
		}
	}
	tokens = append(tokens, markerToken{kind: tokenEOF})
	return tokens, nil
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '.' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// ---------- Parser ----------

type markerParser struct {
	tokens []markerToken
	pos    int
}

func (p *markerParser) peek() markerToken {
	return p.tokens[p.pos]
}

func (p *markerParser) next() markerToken {
	token := p.tokens[p.pos]
	if token.kind != tokenEOF {
		p.pos++
	}
	return token
}

func (p *markerParser) done() bool {
	return p.peek().kind == tokenEOF
}

func (p *markerParser) parseOr() (markerNode, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []markerNode{first}
	for p.peek().kind == tokenOr {
		p.next()
		term, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return markerOr{terms: terms}, nil
}

func (p *markerParser) parseAnd() (markerNode, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	factors := []markerNode{first}
	for p.peek().kind == tokenAnd {
		p.next()
		factor, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		factors = append(factors, factor)
	}
	if len(factors) == 1 {
		return first, nil
	}
	return markerAnd{factors: factors}, nil
}

func (p *markerParser) parseExpr() (markerNode, error) {
	if p.peek().kind == tokenLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRParen {
			return nil, markerError("missing closing parenthesis")
		}
		p.next()
		return inner, nil
	}
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, err := p.parseComparisonOp()
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return markerComparison{lhs: lhs, op: op, rhs: rhs}, nil
}

func (p *markerParser) parseOperand() (markerOperand, error) {
	token := p.next()
	switch token.kind {
	case tokenString:
		return markerOperand{literal: token.text}, nil
	case tokenVariable:
		if _, ok := (types.Environment{}).Lookup(token.text); !ok {
			return markerOperand{}, markerError("unknown variable: " + token.text)
		}
		return markerOperand{variable: token.text, isVar: true}, nil
	default:
		return markerOperand{}, markerError(fmt.Sprintf("expected variable or string, got %q", token.text))
	}
}

func (p *markerParser) parseComparisonOp() (types.MarkerOp, error) {
	token := p.next()
	switch token.kind {
	case tokenOperator:
		return types.MarkerOp(token.text), nil
	case tokenIn:
		return types.MarkerOpIn, nil
	case tokenNot:
		if p.peek().kind != tokenIn {
			return "", markerError("expected 'in' after 'not'")
		}
		p.next()
		return types.MarkerOpNotIn, nil
	default:
		return "", markerError(fmt.Sprintf("expected comparison operator, got %q", token.text))
	}
}
