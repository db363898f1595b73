package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrHalted          = errors.New(f("halted"))
	ErrOutOfMemory     = errors.New(f("out of memory"))
	ErrOutOfBounds     = errors.New(f("out of bounds"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrStackOverflow   = errors.New(f("stack overflow"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrChannelInvalid  = errors.New(f("output channel invalid"))

	// Loader and assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrInvalidOpcode is returned when the byte at PC is not an instruction.
type ErrInvalidOpcode struct {
	Opcode Opcode
	Pc     uint16
}

func (eo ErrInvalidOpcode) Error() string {
	return f("invalid opcode 0b%08b at 0x%02x", uint8(eo.Opcode), eo.Pc)
}

func (eo ErrInvalidOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrInvalidOpcode)
	return
}

// ErrFault locates a failed instruction.
type ErrFault struct {
	Pc   uint16
	Code Code
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at 0x%02x '%v' %v", err.Pc, err.Code, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not an 8 digit binary value", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
