// Package python parses Python expression syntax with gpython and lowers
// the result onto the calculator's expression tree. Only numbers, names and
// binary '+' are accepted. A unary sign applied to a number literal folds
// into the literal, so Python spellings such as "- 1", "-(1)" and "+ 3" are
// accepted here even though the native grammar rejects them.
package python

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pyast "github.com/go-python/gpython/ast"
	pyparser "github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
)

var (
	ErrSyntax      = errors.New("python: syntax error")
	ErrUnsupported = errors.New("python: unsupported expression")
)

// Parse parses src as a single Python expression.
func Parse(src string) (ast.Expr, error) {
	mod, err := pyparser.Parse(strings.NewReader(src), "<expr>", py.EvalMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	expr, ok := mod.(*pyast.Expression)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, mod)
	}
	return lower(expr.Body)
}

func lower(node pyast.Expr) (ast.Expr, error) {
	switch e := node.(type) {
	case *pyast.Num:
		v, err := number(e.N)
		if err != nil {
			return nil, err
		}
		return &ast.NumLiteral{Value: v}, nil

	case *pyast.Name:
		return &ast.Ident{Name: string(e.Id)}, nil

	case *pyast.BinOp:
		if e.Op != pyast.Add {
			return nil, fmt.Errorf("%w: operator %v", ErrUnsupported, e.Op)
		}
		left, err := lower(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := lower(e.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Add{Left: left, Right: right}, nil

	case *pyast.UnaryOp:
		num, ok := e.Operand.(*pyast.Num)
		if !ok || (e.Op != pyast.USub && e.Op != pyast.UAdd) {
			return nil, fmt.Errorf("%w: unary %v", ErrUnsupported, e.Op)
		}
		v, err := number(num.N)
		if err != nil {
			return nil, err
		}
		if e.Op == pyast.USub {
			v = -v
		}
		return &ast.NumLiteral{Value: v}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, node)
	}
}

func number(n py.Object) (float64, error) {
	switch v := n.(type) {
	case py.Int:
		return float64(v), nil
	case py.Float:
		return float64(v), nil
	}
	f, err := strconv.ParseFloat(fmt.Sprintf("%v", n), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: literal %v", ErrUnsupported, n)
	}
	return f, nil
}
