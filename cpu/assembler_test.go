package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doAssemble(t *testing.T, asm *Assembler, program []string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("256", asm.Equate["MEMORY_SIZE"])
	assert.Equal("0xf4", asm.Equate["STACK_TOP"])
	assert.Equal("0b00000001", asm.Equate["OP_HLT"])
	assert.Equal("0b10000010", asm.Equate["OP_LDI"])
}

func TestAssemblerPrint8(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; print8",
		"LDI R0, 8",
		"prn r0   # lower case",
		"",
		"HLT",
	}

	prog := doAssemble(t, &Assembler{}, program)

	expected := []Statement{
		{2, 0, []string{"LDI", "R0", "8"}, []uint8{0x82, 0x00, 0x08}, ""},
		{3, 3, []string{"prn", "r0"}, []uint8{0x47, 0x00}, ""},
		{5, 5, []string{"HLT"}, []uint8{0x01}, ""},
	}

	assert.Equal(expected, prog.Statements)
	assert.Equal([]uint8{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, prog.Binary())
}

func TestAssemblerOpcodes(t *testing.T) {
	table := [](struct {
		line  string
		bytes []uint8
	}){
		{"HLT", []uint8{0x01}},
		{"RET", []uint8{0x11}},
		{"PUSH R1", []uint8{0x45, 0x01}},
		{"POP R2", []uint8{0x46, 0x02}},
		{"PRN R3", []uint8{0x47, 0x03}},
		{"CALL R4", []uint8{0x50, 0x04}},
		{"JMP R5", []uint8{0x54, 0x05}},
		{"JEQ R6", []uint8{0x55, 0x06}},
		{"JNE R7", []uint8{0x56, 0x07}},
		{"JNE SP", []uint8{0x56, 0x07}},
		{"LDI R0, 0x7f", []uint8{0x82, 0x00, 0x7f}},
		{"LDI R0 0b1010", []uint8{0x82, 0x00, 0x0a}},
		{"LDI R0, -1", []uint8{0x82, 0x00, 0xff}},
		{"LDI R0, 'A'", []uint8{0x82, 0x00, 0x41}},
		{"LDI R0, '\\n'", []uint8{0x82, 0x00, 0x0a}},
		{"ADD R0, R1", []uint8{0xa0, 0x00, 0x01}},
		{"MUL R2,R3", []uint8{0xa2, 0x02, 0x03}},
		{"CMP R4, R5", []uint8{0xa7, 0x04, 0x05}},
		{".db 1 2 0xff", []uint8{0x01, 0x02, 0xff}},
		{".db OP_HLT", []uint8{0x01}},
	}

	for _, entry := range table {
		t.Run(entry.line, func(t *testing.T) {
			assert := assert.New(t)

			prog := doAssemble(t, &Assembler{}, []string{entry.line})
			assert.Equal(entry.bytes, prog.Binary())
		})
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        LDI R1, sub     ; forward reference",
		"        CALL R1",
		"        HLT",
		"sub:    LDI R0, $(2*21)",
		"        PRN R0",
		"end:",
		"        RET",
		"        LDI R2, $(end+1)",
	}

	asm := &Assembler{}
	prog := doAssemble(t, asm, program)

	assert.Equal(6, asm.Label["sub"])
	assert.Equal(11, asm.Label["end"])
	assert.Equal([]uint8{
		0x82, 0x01, 0x06,
		0x50, 0x01,
		0x01,
		0x82, 0x00, 42,
		0x47, 0x00,
		0x11,
		0x82, 0x02, 12,
	}, prog.Binary())

	dbg := prog.Debug(2)
	assert.Equal("sub", dbg.LinkLabel)
	assert.Equal(1, dbg.LineNo)
}

func TestAssemblerLabelLastByte(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R0, end",
		".db " + strings.Repeat("0 ", MEMORY_SIZE-4),
		"end: HLT",
	}

	asm := &Assembler{}
	prog := doAssemble(t, asm, program)

	assert.Equal(MEMORY_SIZE, prog.Size())
	assert.Equal(MEMORY_SIZE-1, asm.Label["end"])
	assert.Equal(uint8(MEMORY_SIZE-1), prog.Binary()[2])
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ COUNTER R2",
		".equ LIMIT 10",
		"LDI COUNTER, LIMIT",
		"LDI R0, $(LIMIT * 3 + STACK_TOP - 0xf4)",
		"LDI R1, $(LINENO)",
		"PRN COUNTER",
	}

	asm := &Assembler{}
	asm.Predefine("LIMIT2", "20")
	prog := doAssemble(t, asm, program)

	assert.Equal("20", asm.Equate["LIMIT2"])
	assert.Equal([]uint8{
		0x82, 0x02, 10,
		0x82, 0x00, 30,
		0x82, 0x01, 5,
		0x47, 0x02,
	}, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"instruction", []string{"HLT", "NOP"}, 2, ErrInstructionInvalid},
		{"register", []string{"PRN R8"}, 1, ErrParseRegister("R8")},
		{"register_imm", []string{"ADD R0, 1"}, 1, ErrParseRegister("1")},
		{"missing", []string{"LDI R0"}, 1, ErrOpcodeValueMissing},
		{"extra", []string{"HLT R0"}, 1, ErrOpcodeExtraArgs},
		{"range", []string{"LDI R0, 256"}, 1, ErrValueRange},
		{"range_neg", []string{"LDI R0, -129"}, 1, ErrValueRange},
		{"db_empty", []string{".db"}, 1, ErrOpcodeValueMissing},
		{"db_number", []string{".db foo"}, 1, ErrParseNumber("foo")},
		{"label_missing", []string{"HLT", "LDI R0, nowhere", "HLT"}, 2, ErrLabelMissing("nowhere")},
		{"label_duplicate", []string{"a: HLT", "a: HLT"}, 2, ErrLabelDuplicate},
		{"label_invalid", []string{"1a: HLT"}, 1, ErrInstructionInvalid},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"expression", []string{"LDI R0, $(1 +)"}, 1, ErrParseExpression("1 +")},
		{"expression_type", []string{"LDI R0, $(\"a\")"}, 1, ErrParseExpression("\"a\"")},
		{"label_end", []string{"LDI R0, end", ".db " + strings.Repeat("0 ", MEMORY_SIZE-3), "end:"}, 1, ErrValueRange},
		{"memory", []string{".db " + strings.Repeat("0 ", MEMORY_SIZE+1)}, 1, ErrOutOfMemory},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			asm := &Assembler{}
			_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
			assert.ErrorIs(err, entry.err)

			var syntax *ErrSyntax
			assert.True(errors.As(err, &syntax))
			assert.Equal(entry.lineno, syntax.LineNo)
		})
	}
}

func TestAssemblerRun(t *testing.T) {
	assert := assert.New(t)

	// Prints 20, 30, 36, 60 through a subroutine.
	program := []string{
		"        LDI R1, MULT2PRINT",
		"        LDI R0, 10",
		"        CALL R1",
		"        LDI R0, 15",
		"        CALL R1",
		"        LDI R0, 18",
		"        CALL R1",
		"        LDI R0, 30",
		"        CALL R1",
		"        HLT",
		"MULT2PRINT:",
		"        ADD R0, R0",
		"        PRN R0",
		"        RET",
	}

	prog := doAssemble(t, &Assembler{}, program)

	cpu, out := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal([]uint8{20, 30, 36, 60}, out.Values)
	assert.Equal(uint8(STACK_TOP), cpu.Register[REG_SP])
}
