package vm

// Instructions are 32 bits: opcode in the top byte, argument in the low 24.
const (
	OP_HALT   uint8 = 0x00
	OP_NOOP   uint8 = 0x01
	OP_PUSH_C uint8 = 0x02 // push Constants[arg]
	OP_PUSH_K uint8 = 0x03 // resolve Names[arg] and push its value
	OP_ADD    uint8 = 0x10
)

// MaxArg is the largest argument an instruction can carry.
const MaxArg = 0x00FFFFFF

// Encode packs an opcode and its argument into one instruction.
func Encode(op uint8, arg uint32) uint32 {
	return (uint32(op) << 24) | (arg & MaxArg)
}

// Decode splits an instruction into opcode and argument.
func Decode(instr uint32) (uint8, uint32) {
	return uint8(instr >> 24), instr & MaxArg
}
