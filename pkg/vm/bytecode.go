package vm

// Bytecode represents the compiled output of an expression.
type Bytecode struct {
	Instructions []uint32
	Constants    []float64
	Names        []string
}
