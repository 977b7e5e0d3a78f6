// Package eval reduces expression trees to float64 values.
//
// Two engines are available. The tree engine walks the AST directly. The vm
// engine compiles the AST to bytecode and runs it on a stack machine. Both
// resolve identifiers through stdlib.Lookup and return the same values and
// errors for every tree the machine's stack can hold.
package eval

import (
	"fmt"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
	"github.com/agenthands/ncalc/pkg/compiler/emitter"
	"github.com/agenthands/ncalc/pkg/compiler/parser"
	"github.com/agenthands/ncalc/pkg/stdlib"
	"github.com/agenthands/ncalc/pkg/vm"
)

// Engine names an evaluation strategy.
type Engine string

const (
	EngineTree Engine = "tree"
	EngineVM   Engine = "vm"
)

// DefaultGasLimit is the vm engine's instruction budget when none is set.
const DefaultGasLimit = 1_000_000

// ParseEngine validates an engine name.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(name); e {
	case EngineTree, EngineVM:
		return e, nil
	}
	return "", fmt.Errorf("eval: unknown engine %q", name)
}

// Eval reduces expr by tree walking. The left operand of an Add is evaluated
// before the right one.
func Eval(expr ast.Expr) (float64, error) {
	switch n := expr.(type) {
	case *ast.NumLiteral:
		return n.Value, nil
	case *ast.Ident:
		return stdlib.Lookup(n.Name)
	case *ast.Add:
		l, err := Eval(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right)
		if err != nil {
			return 0, err
		}
		return l + r, nil
	default:
		return 0, fmt.Errorf("eval: unsupported node %T", expr)
	}
}

// Evaluate parses text with the default parser and evaluates it by tree
// walking. Parse failures are *parser.ParseError, unknown names are
// *stdlib.UnboundIdentifierError.
func Evaluate(text string) (float64, error) {
	return Evaluator{}.Evaluate(text)
}

// Evaluator bundles parser options with an engine choice.
type Evaluator struct {
	Parser parser.Parser
	Engine Engine
	// GasLimit bounds the vm engine. Zero means DefaultGasLimit.
	GasLimit int
}

func (ev Evaluator) Evaluate(text string) (float64, error) {
	expr, err := ev.Parser.Parse(text)
	if err != nil {
		return 0, err
	}
	return ev.EvalExpr(expr)
}

// EvalExpr evaluates an already parsed tree with the configured engine.
func (ev Evaluator) EvalExpr(expr ast.Expr) (float64, error) {
	switch ev.Engine {
	case "", EngineTree:
		return Eval(expr)
	case EngineVM:
		bc, err := emitter.Emit(expr)
		if err != nil {
			return 0, err
		}
		gas := ev.GasLimit
		if gas <= 0 {
			gas = DefaultGasLimit
		}
		return vm.Exec(bc, gas)
	default:
		return 0, fmt.Errorf("eval: unknown engine %q", ev.Engine)
	}
}
