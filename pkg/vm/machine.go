package vm

import (
	"errors"
	"fmt"

	"github.com/agenthands/ncalc/pkg/stdlib"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrGasExhausted   = errors.New("vm: gas exhausted")
	ErrBadOpcode      = errors.New("vm: bad opcode")
	ErrBadOperand     = errors.New("vm: operand out of range")
)

const StackDepth = 128

// Machine evaluates Bytecode on a fixed-size float stack.
type Machine struct {
	Stack [StackDepth]float64
	SP    int // Stack Pointer
	IP    int // Instruction Pointer

	Code      []uint32
	Constants []float64
	Names     []string
}

// Load points the machine at bc and clears any previous run.
func (m *Machine) Load(bc *Bytecode) {
	m.Reset()
	m.Code = bc.Instructions
	m.Constants = bc.Constants
	m.Names = bc.Names
}

// Reset clears the machine state for reuse (sync.Pool compliant).
func (m *Machine) Reset() {
	m.SP = 0
	m.IP = 0
	m.Code = nil
	m.Constants = nil
	m.Names = nil
	for i := range m.Stack {
		m.Stack[i] = 0
	}
}

// Push adds a value to the stack. Panics on overflow.
func (m *Machine) Push(v float64) {
	if m.SP >= StackDepth {
		panic(ErrStackOverflow)
	}
	m.Stack[m.SP] = v
	m.SP++
}

// Pop removes and returns the top value from the stack. Panics on underflow.
func (m *Machine) Pop() float64 {
	if m.SP <= 0 {
		panic(ErrStackUnderflow)
	}
	m.SP--
	return m.Stack[m.SP]
}

// Run executes instructions until HALT, error, or gas exhaustion. Each
// instruction costs one unit of gas.
func (m *Machine) Run(gasLimit int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (e == ErrStackOverflow || e == ErrStackUnderflow) {
				err = e
				return
			}
			panic(r)
		}
	}()

	for i := 0; i < gasLimit; i++ {
		if m.IP < 0 || m.IP >= len(m.Code) {
			return fmt.Errorf("%w: instruction pointer %d", ErrBadOperand, m.IP)
		}
		op, arg := Decode(m.Code[m.IP])

		switch op {
		case OP_HALT:
			return nil

		case OP_NOOP:
			m.IP++

		case OP_PUSH_C:
			if int(arg) >= len(m.Constants) {
				return fmt.Errorf("%w: constant %d", ErrBadOperand, arg)
			}
			m.Push(m.Constants[arg])
			m.IP++

		case OP_PUSH_K:
			if int(arg) >= len(m.Names) {
				return fmt.Errorf("%w: name %d", ErrBadOperand, arg)
			}
			v, lookupErr := stdlib.Lookup(m.Names[arg])
			if lookupErr != nil {
				return lookupErr
			}
			m.Push(v)
			m.IP++

		case OP_ADD:
			b := m.Pop()
			a := m.Pop()
			m.Push(a + b)
			m.IP++

		default:
			return fmt.Errorf("%w: 0x%02x at %d", ErrBadOpcode, op, m.IP)
		}
	}

	return ErrGasExhausted
}

// Result returns the single value a halted expression leaves on the stack.
func (m *Machine) Result() (float64, error) {
	switch {
	case m.SP == 0:
		return 0, ErrStackUnderflow
	case m.SP > 1:
		return 0, fmt.Errorf("vm: %d values left on stack", m.SP)
	}
	return m.Stack[0], nil
}
