package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an LS-8 instruction byte, laid out as AABCDDDD:
//   - AA: number of operand bytes that follow.
//   - B: set for ALU operations.
//   - C: set when the instruction sets PC itself.
//   - DDDD: instruction identifier.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HLT  = Opcode(0b0000_0001) // HLT
	OP_RET  = Opcode(0b0001_0001) // RET
	OP_PUSH = Opcode(0b0100_0101) // PUSH
	OP_POP  = Opcode(0b0100_0110) // POP
	OP_PRN  = Opcode(0b0100_0111) // PRN
	OP_CALL = Opcode(0b0101_0000) // CALL
	OP_JMP  = Opcode(0b0101_0100) // JMP
	OP_JEQ  = Opcode(0b0101_0101) // JEQ
	OP_JNE  = Opcode(0b0101_0110) // JNE
	OP_LDI  = Opcode(0b1000_0010) // LDI
	OP_ADD  = Opcode(0b1010_0000) // ADD
	OP_MUL  = Opcode(0b1010_0010) // MUL
	OP_CMP  = Opcode(0b1010_0111) // CMP
)

// Opcodes lists every valid opcode, in encoding order.
var Opcodes = []Opcode{
	OP_HLT, OP_RET,
	OP_PUSH, OP_POP, OP_PRN,
	OP_CALL, OP_JMP, OP_JEQ, OP_JNE,
	OP_LDI,
	OP_ADD, OP_MUL, OP_CMP,
}

// ArgKind is the interpretation of an operand byte.
type ArgKind int

const (
	ARG_REG = ArgKind(0) // Register index.
	ARG_IMM = ArgKind(1) // Immediate value.
)

// argKinds is the operand signature of each opcode.
var argKinds = map[Opcode][]ArgKind{
	OP_HLT:  nil,
	OP_RET:  nil,
	OP_PUSH: {ARG_REG},
	OP_POP:  {ARG_REG},
	OP_PRN:  {ARG_REG},
	OP_CALL: {ARG_REG},
	OP_JMP:  {ARG_REG},
	OP_JEQ:  {ARG_REG},
	OP_JNE:  {ARG_REG},
	OP_LDI:  {ARG_REG, ARG_IMM},
	OP_ADD:  {ARG_REG, ARG_REG},
	OP_MUL:  {ARG_REG, ARG_REG},
	OP_CMP:  {ARG_REG, ARG_REG},
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := argKinds[op]
	return ok
}

// Args returns the operand signature of a valid opcode.
func (op Opcode) Args() []ArgKind {
	return argKinds[op]
}

// Operands returns the operand count encoded in the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Width returns the instruction width in bytes.
func (op Opcode) Width() uint16 {
	return uint16(1 + op.Operands())
}

// IsAlu returns true if the opcode is an ALU operation.
func (op Opcode) IsAlu() bool {
	return (op>>5)&1 != 0
}

// SetsPc returns true if the opcode is a control flow instruction.
func (op Opcode) SetsPc() bool {
	return (op>>4)&1 != 0
}

// Code is a single decoded instruction: the opcode and the two operand
// bytes following it in memory.
type Code struct {
	Opcode Opcode
	A      uint8
	B      uint8
}

// MakeCode creates an instruction from an opcode and its operands.
func MakeCode(op Opcode, args ...uint8) (code Code) {
	code.Opcode = op
	if len(args) > 0 {
		code.A = args[0]
	}
	if len(args) > 1 {
		code.B = args[1]
	}
	return
}

// Bytes returns the encoded form of the instruction. An invalid opcode
// encodes as its single byte.
func (code Code) Bytes() []uint8 {
	if !code.Opcode.Valid() {
		return []uint8{uint8(code.Opcode)}
	}

	return []uint8{uint8(code.Opcode), code.A, code.B}[:code.Opcode.Width()]
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	if !code.Opcode.Valid() {
		return fmt.Sprintf(".db 0b%08b", uint8(code.Opcode))
	}

	words := []string{code.Opcode.String()}
	operands := []uint8{code.A, code.B}
	for n, kind := range code.Opcode.Args() {
		switch kind {
		case ARG_REG:
			words = append(words, fmt.Sprintf("R%d", operands[n]))
		case ARG_IMM:
			words = append(words, fmt.Sprintf("%d", operands[n]))
		}
	}

	if len(words) == 1 {
		return words[0]
	}

	return words[0] + " " + strings.Join(words[1:], ", ")
}
