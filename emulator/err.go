package emulator

import (
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// ErrRuntime locates a failed instruction by program counter and, when
// the program listing covers it, by source line.
type ErrRuntime struct {
	LineNo int    // Source line; 0 when PC is outside the listing.
	Pc     uint16 // Address of the failed instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%02x %v", err.Pc, err.Err)
	}
	return f("line %d (pc 0x%02x) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
