package ast

import (
	"strconv"
	"strings"
)

// Expr is a node of the expression tree. Trees are built once by a parser,
// never mutated, and every child has exactly one parent.
type Expr interface {
	exprNode()
	String() string
}

// Ident is an unresolved symbol reference. Names are resolved at evaluation.
type Ident struct {
	Name string
}

func (i *Ident) exprNode()      {}
func (i *Ident) String() string { return "Ident(" + i.Name + ")" }

type NumLiteral struct {
	Value float64
}

func (n *NumLiteral) exprNode() {}
func (n *NumLiteral) String() string {
	return "NumLiteral(" + strconv.FormatFloat(n.Value, 'g', -1, 64) + ")"
}

// Add: Left + Right
type Add struct {
	Left  Expr
	Right Expr
}

func (a *Add) exprNode() {}
func (a *Add) String() string {
	var b strings.Builder
	b.WriteString("Add(")
	b.WriteString(a.Left.String())
	b.WriteString(", ")
	b.WriteString(a.Right.String())
	b.WriteString(")")
	return b.String()
}

// Sum folds operands left-associatively into nested Add nodes:
// Sum(a, b, c) is Add(Add(a, b), c).
func Sum(first Expr, rest ...Expr) Expr {
	acc := first
	for _, e := range rest {
		acc = &Add{Left: acc, Right: e}
	}
	return acc
}

// Depth returns the height of the tree; a leaf has depth 1.
func Depth(e Expr) int {
	if a, ok := e.(*Add); ok {
		return 1 + max(Depth(a.Left), Depth(a.Right))
	}
	return 1
}
