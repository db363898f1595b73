package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is the output channel interface used by PRN.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"STACK_TOP":      fmt.Sprintf("0x%x", STACK_TOP),
}

// Flags are the condition flags set by CMP.
type Flags struct {
	Equal   bool
	Greater bool
	Less    bool
}

// String returns the flags in LS-8 FL register order, 'LGE'.
func (fl Flags) String() string {
	bits := []byte("---")
	if fl.Less {
		bits[0] = 'L'
	}
	if fl.Greater {
		bits[1] = 'G'
	}
	if fl.Equal {
		bits[2] = 'E'
	}
	return string(bits)
}

// Cpu is the simulation context for the LS-8 machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint16                // Address of the next instruction.
	Memory   [MEMORY_SIZE]uint8    // Program text and stack.
	Register [REGISTER_COUNT]uint8 // Register bank; r7 is the stack pointer.
	Flags    Flags                 // Condition flags.
	Halted   bool                  // Set once HLT executes.

	Ticks int // Instructions executed.

	output Channel
}

// NewCpu creates a new CPU with the stack pointer at STACK_TOP.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Register[REG_SP] = STACK_TOP

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// SetOutput attaches the channel PRN sends values to.
func (cpu *Cpu) SetOutput(channel Channel) {
	cpu.output = channel
}

// Output returns the channel PRN sends values to.
func (cpu *Cpu) Output() Channel {
	return cpu.output
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: 0x%02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "fl", cpu.Flags)
	for n, val := range cpu.Register {
		name := fmt.Sprintf("r%d", n)
		if n == REG_SP {
			name = "sp"
		}
		text += fmt.Sprintf("% 5s: 0x%02X\n", name, val)
	}
	if top, ok := cpu.Peek(); ok {
		text += fmt.Sprintf("% 5s: %d (top 0x%02X)\n", "stack", cpu.Depth(), top)
	}

	return
}

// Trace returns the PC, the bytes at PC, and the register bank on a single line.
func (cpu *Cpu) Trace() (text string) {
	var window [3]uint8
	for n := range window {
		window[n], _ = cpu.MemoryRead(cpu.Pc + uint16(n))
	}

	text = fmt.Sprintf("TRACE: %02X | %02X %02X %02X |", cpu.Pc, window[0], window[1], window[2])
	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02X", val)
	}

	return
}

// Load writes a program into memory, starting at address 0.
func (cpu *Cpu) Load(program []uint8) (err error) {
	if len(program) > MEMORY_SIZE {
		err = ErrOutOfMemory
		return
	}

	copy(cpu.Memory[:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// MemoryRead returns the byte at an address.
func (cpu *Cpu) MemoryRead(addr uint16) (value uint8, err error) {
	if addr >= MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	value = cpu.Memory[addr]
	return
}

// MemoryWrite sets the byte at an address.
func (cpu *Cpu) MemoryWrite(addr uint16, value uint8) (err error) {
	if addr >= MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	cpu.Memory[addr] = value
	return
}

// FetchCode fetches the instruction at PC. Both operand bytes are fetched;
// those past the end of memory read as zero.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	op, err := cpu.MemoryRead(cpu.Pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(op)
	code.A, _ = cpu.MemoryRead(cpu.Pc + 1)
	code.B, _ = cpu.MemoryRead(cpu.Pc + 2)

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, err := cpu.FetchCode()
	if err != nil {
		err = &ErrFault{Pc: cpu.Pc, Err: err}
		return
	}

	err = cpu.Execute(code)

	return
}

// Run executes instructions until HLT, or until an instruction fails.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction. On failure no machine
// state is modified.
func (cpu *Cpu) Execute(code Code) (err error) {
	pc := cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrFault{Pc: pc, Code: code, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%02x: %v", pc, code)
	}

	op := code.Opcode
	if !op.Valid() {
		err = ErrInvalidOpcode{Opcode: op, Pc: pc}
		return
	}

	next_pc := pc + op.Width()
	if next_pc > MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	switch {
	case op.IsAlu():
		err = cpu.executeAlu(code)
	case op.SetsPc():
		next_pc, err = cpu.executeBranch(code, next_pc)
	default:
		err = cpu.executeOther(code)
	}
	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// executeAlu executes ADD, MUL and CMP.
func (cpu *Cpu) executeAlu(code Code) (err error) {
	a, b, err := cpu.regPair(code)
	if err != nil {
		return
	}

	switch code.Opcode {
	case OP_ADD, OP_MUL, OP_CMP:
		cpu.doAlu(code.Opcode, a, *b)
	default:
		err = ErrInvalidOpcode{Opcode: code.Opcode, Pc: cpu.Pc}
	}

	return
}

// executeBranch executes the instructions that may set PC, returning the
// address of the next instruction.
func (cpu *Cpu) executeBranch(code Code, next_pc uint16) (new_pc uint16, err error) {
	new_pc = next_pc

	if code.Opcode == OP_RET {
		var value uint8
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		new_pc = uint16(value)
		return
	}

	target, err := cpu.reg(code.A)
	if err != nil {
		return
	}

	switch code.Opcode {
	case OP_JMP:
		new_pc = uint16(*target)
	case OP_JEQ, OP_JNE:
		if cpu.Flags.Equal == (code.Opcode == OP_JEQ) {
			new_pc = uint16(*target)
		}
	case OP_CALL:
		// The return address must fit in a byte.
		if next_pc >= MEMORY_SIZE {
			err = ErrOutOfBounds
			return
		}
		addr := uint16(*target)
		err = cpu.Push(uint8(next_pc))
		if err != nil {
			return
		}
		new_pc = addr
	default:
		err = ErrInvalidOpcode{Opcode: code.Opcode, Pc: cpu.Pc}
	}

	return
}

// executeOther executes the instructions that neither use the ALU nor
// set PC.
func (cpu *Cpu) executeOther(code Code) (err error) {
	if code.Opcode == OP_HLT {
		cpu.Halted = true
		return
	}

	reg, err := cpu.reg(code.A)
	if err != nil {
		return
	}

	switch code.Opcode {
	case OP_LDI:
		*reg = code.B
	case OP_PRN:
		if cpu.output == nil {
			err = ErrChannelInvalid
			return
		}
		err = cpu.output.Send(*reg)
	case OP_PUSH:
		err = cpu.Push(*reg)
	case OP_POP:
		var value uint8
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		*reg = value
	default:
		err = ErrInvalidOpcode{Opcode: code.Opcode, Pc: cpu.Pc}
	}

	return
}

// reg returns the register selected by an operand byte.
func (cpu *Cpu) reg(index uint8) (reg *uint8, err error) {
	if int(index) >= len(cpu.Register) {
		err = errors.Join(ErrOutOfBounds, ErrRegisterInvalid)
		return
	}

	reg = &cpu.Register[index]
	return
}

// regPair returns the registers selected by both operand bytes.
func (cpu *Cpu) regPair(code Code) (a, b *uint8, err error) {
	a, err = cpu.reg(code.A)
	if err != nil {
		return
	}

	b, err = cpu.reg(code.B)
	return
}

// doAlu performs the requested ALU action, updating the destination
// register or the flags.
func (cpu *Cpu) doAlu(op Opcode, dst *uint8, value uint8) {
	switch op {
	case OP_ADD:
		*dst += value
	case OP_MUL:
		*dst *= value
	case OP_CMP:
		cpu.Flags = Flags{
			Equal:   *dst == value,
			Greater: *dst > value,
			Less:    *dst < value,
		}
	}
}
