package emitter

import (
	"fmt"
	"math"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
	"github.com/agenthands/ncalc/pkg/vm"
)

// Emitter compiles an expression tree into stack-machine bytecode.
type Emitter struct {
	instructions []uint32
	constants    []float64
	names        []string

	// Pool indexes, keyed on float bits and on name.
	constIndex map[uint64]uint32
	nameIndex  map[string]uint32
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit compiles expr. Operands are emitted in post order, left before right,
// so the machine adds in the same order the tree evaluator does.
func Emit(expr ast.Expr) (*vm.Bytecode, error) {
	return NewEmitter().Emit(expr)
}

func (e *Emitter) Emit(expr ast.Expr) (*vm.Bytecode, error) {
	e.instructions = nil
	e.constants = nil
	e.names = nil
	e.constIndex = make(map[uint64]uint32)
	e.nameIndex = make(map[string]uint32)

	if err := e.emitNode(expr); err != nil {
		return nil, err
	}
	e.emitOp(vm.OP_HALT, 0)

	return &vm.Bytecode{
		Instructions: e.instructions,
		Constants:    e.constants,
		Names:        e.names,
	}, nil
}

func (e *Emitter) emitNode(node ast.Expr) error {
	switch n := node.(type) {
	case *ast.NumLiteral:
		idx, err := e.addConstant(n.Value)
		if err != nil {
			return err
		}
		e.emitOp(vm.OP_PUSH_C, idx)

	case *ast.Ident:
		// Names are resolved by the machine so an unbound name fails at run
		// time, not at compile time.
		idx, err := e.addName(n.Name)
		if err != nil {
			return err
		}
		e.emitOp(vm.OP_PUSH_K, idx)

	case *ast.Add:
		if err := e.emitNode(n.Left); err != nil {
			return err
		}
		if err := e.emitNode(n.Right); err != nil {
			return err
		}
		e.emitOp(vm.OP_ADD, 0)

	default:
		return fmt.Errorf("emitter: unsupported node %T", node)
	}
	return nil
}

func (e *Emitter) emitOp(op uint8, arg uint32) {
	e.instructions = append(e.instructions, vm.Encode(op, arg))
}

func (e *Emitter) addConstant(v float64) (uint32, error) {
	bits := math.Float64bits(v)
	if idx, ok := e.constIndex[bits]; ok {
		return idx, nil
	}
	if len(e.constants) > vm.MaxArg {
		return 0, fmt.Errorf("emitter: constant pool exceeds %d entries", vm.MaxArg+1)
	}
	idx := uint32(len(e.constants))
	e.constants = append(e.constants, v)
	e.constIndex[bits] = idx
	return idx, nil
}

func (e *Emitter) addName(name string) (uint32, error) {
	if idx, ok := e.nameIndex[name]; ok {
		return idx, nil
	}
	if len(e.names) > vm.MaxArg {
		return 0, fmt.Errorf("emitter: name pool exceeds %d entries", vm.MaxArg+1)
	}
	idx := uint32(len(e.names))
	e.names = append(e.names, name)
	e.nameIndex[name] = idx
	return idx, nil
}
