package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
)

// DefaultMaxDepth bounds parenthesis nesting when Parser.MaxDepth is unset.
const DefaultMaxDepth = 1000

// ErrSyntax is wrapped by every *ParseError.
var ErrSyntax = errors.New("parser: syntax error")

// Reason classifies a parse failure.
type Reason string

const (
	ReasonExpectedTerm    Reason = "expected number, identifier or '('"
	ReasonExpectedNumber  Reason = "expected number"
	ReasonExpectedIdent   Reason = "expected identifier"
	ReasonExpectedLParen  Reason = "expected '('"
	ReasonExpectedRParen  Reason = "expected ')'"
	ReasonMalformedNumber Reason = "malformed number"
	ReasonTooDeep         Reason = "nesting too deep"
	ReasonTrailingInput   Reason = "unexpected trailing input"
)

// ParseError reports where a grammar rule failed to match. Input is the
// unconsumed text at the failure. Offset is the byte offset of Input within
// the whole source; it is only known to Parse and is -1 otherwise.
type ParseError struct {
	Offset int
	Input  string
	Reason Reason

	// fatal failures end an ordered choice instead of letting the next
	// alternative run.
	fatal bool
}

func (e *ParseError) Error() string {
	near := e.Input
	if len(near) > 16 {
		near = near[:16] + "..."
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("parser: %s at offset %d near %q", e.Reason, e.Offset, near)
	}
	return fmt.Sprintf("parser: %s near %q", e.Reason, near)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

func fail(input string, reason Reason) *ParseError {
	return &ParseError{Offset: -1, Input: input, Reason: reason}
}

// commit marks err so that an enclosing ordered choice stops at it.
func commit(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.fatal = true
	}
	return err
}

// Parser holds the options of the recursive-descent grammar
//
//	expr   := term ( '+' term )*
//	term   := number | ident | '(' expr ')'
//
// Every rule takes the remaining text and returns the text left after it, so a
// Parser carries no scanning state and may be shared between goroutines.
type Parser struct {
	// MaxDepth bounds parenthesis nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// Strict makes Parse reject text left after the expression.
	Strict bool
}

var defaultParser = Parser{}

func ParseExpr(input string) (string, ast.Expr, error)   { return defaultParser.ParseExpr(input) }
func ParseTerm(input string) (string, ast.Expr, error)   { return defaultParser.ParseTerm(input) }
func ParseNumber(input string) (string, ast.Expr, error) { return defaultParser.ParseNumber(input) }
func ParseIdent(input string) (string, ast.Expr, error)  { return defaultParser.ParseIdent(input) }
func ParseParens(input string) (string, ast.Expr, error) { return defaultParser.ParseParens(input) }

// Parse parses src as a single expression with the default options.
func Parse(src string) (ast.Expr, error) { return defaultParser.Parse(src) }

// Parse parses src as a single expression. A failure is returned as a
// *ParseError whose Offset is relative to src.
func (p Parser) Parse(src string) (ast.Expr, error) {
	rest, expr, err := p.ParseExpr(src)
	if err != nil {
		return nil, locate(err, src)
	}
	if p.Strict {
		if rest = skipSpace(rest); rest != "" {
			return nil, locate(fail(rest, ReasonTrailingInput), src)
		}
	}
	return expr, nil
}

func locate(err error, src string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Offset = len(src) - len(pe.Input)
	}
	return err
}

// ParseExpr parses one term and folds every following '+' term into
// left-associated Add nodes.
func (p Parser) ParseExpr(input string) (string, ast.Expr, error) {
	return p.expr(input, 0)
}

func (p Parser) ParseTerm(input string) (string, ast.Expr, error) {
	return p.term(input, 0)
}

func (p Parser) ParseParens(input string) (string, ast.Expr, error) {
	return p.parens(input, 0)
}

func (p Parser) expr(input string, depth int) (string, ast.Expr, error) {
	rest, first, err := p.term(input, depth)
	if err != nil {
		return input, nil, err
	}
	var more []ast.Expr
	for {
		next := skipSpace(rest)
		if peek(next) != '+' {
			return rest, ast.Sum(first, more...), nil
		}
		var right ast.Expr
		next, right, err = p.term(skipSpace(next[1:]), depth)
		if err != nil {
			return input, nil, err
		}
		more = append(more, right)
		rest = next
	}
}

type termRule func(p Parser, input string, depth int) (string, ast.Expr, error)

func numberRule(p Parser, input string, _ int) (string, ast.Expr, error) { return p.ParseNumber(input) }
func identRule(p Parser, input string, _ int) (string, ast.Expr, error)  { return p.ParseIdent(input) }

// term tries number, identifier and parenthesized expression in that order
// and commits to the first that matches.
func (p Parser) term(input string, depth int) (string, ast.Expr, error) {
	rules := [...]termRule{numberRule, identRule, Parser.parens}
	for _, rule := range rules {
		rest, expr, err := rule(p, input, depth)
		if err == nil {
			return rest, expr, nil
		}
		var pe *ParseError
		if errors.As(err, &pe) && pe.fatal {
			return input, nil, err
		}
	}
	return input, nil, fail(skipSpace(input), ReasonExpectedTerm)
}

// ParseNumber recognizes a float literal: optional sign, digits with an
// optional fraction (or a fraction alone), and an optional exponent.
// Surrounding whitespace is skipped.
func (p Parser) ParseNumber(input string) (string, ast.Expr, error) {
	start := skipSpace(input)
	n, err := scanFloat(start)
	if err != nil {
		return input, nil, err
	}
	v, convErr := strconv.ParseFloat(start[:n], 64)
	if convErr != nil && !errors.Is(convErr, strconv.ErrRange) {
		return input, nil, fail(start, ReasonMalformedNumber)
	}
	return skipSpace(start[n:]), &ast.NumLiteral{Value: v}, nil
}

// scanFloat returns the length of the float lexeme at the front of s.
func scanFloat(s string) (int, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := countDigits(s[i:])
	i += digits
	switch {
	case digits > 0:
		if i < len(s) && s[i] == '.' {
			i++
			i += countDigits(s[i:])
		}
	case i < len(s) && s[i] == '.' && countDigits(s[i+1:]) > 0:
		i++
		i += countDigits(s[i:])
	default:
		return 0, fail(s, ReasonExpectedNumber)
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := countDigits(s[j:])
		if exp == 0 {
			// An exponent marker commits the literal.
			return 0, commit(fail(s, ReasonMalformedNumber))
		}
		i = j + exp
	}
	return i, nil
}

// ParseIdent recognizes an identifier, ( ALPHA | '_' ) ( ALPHA | DIGIT | '_' )*,
// skipping surrounding whitespace.
func (p Parser) ParseIdent(input string) (string, ast.Expr, error) {
	start := skipSpace(input)
	if ch := peek(start); !isAlpha(ch) && ch != '_' {
		return input, nil, fail(start, ReasonExpectedIdent)
	}
	n := 1
	for n < len(start) && (isAlpha(start[n]) || isDigit(start[n]) || start[n] == '_') {
		n++
	}
	return skipSpace(start[n:]), &ast.Ident{Name: start[:n]}, nil
}

func (p Parser) parens(input string, depth int) (string, ast.Expr, error) {
	start := skipSpace(input)
	if peek(start) != '(' {
		return input, nil, fail(start, ReasonExpectedLParen)
	}
	if depth >= p.maxDepth() {
		return input, nil, commit(fail(start, ReasonTooDeep))
	}
	rest, inner, err := p.expr(start[1:], depth+1)
	if err != nil {
		return input, nil, commit(err)
	}
	rest = skipSpace(rest)
	if peek(rest) != ')' {
		return input, nil, commit(fail(rest, ReasonExpectedRParen))
	}
	return skipSpace(rest[1:]), inner, nil
}

func (p Parser) maxDepth() int {
	if p.MaxDepth > 0 {
		return p.MaxDepth
	}
	return DefaultMaxDepth
}

func skipSpace(s string) string {
	for isSpace(peek(s)) {
		s = s[1:]
	}
	return s
}

func peek(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
