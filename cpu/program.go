package cpu

import (
	"iter"
)

// Statement is a line of source with the bytes it emitted.
type Statement struct {
	LineNo    int      // Source line number.
	Address   int      // Memory address of the first byte.
	Words     []string // Source words, after comment removal.
	Bytes     []uint8  // Emitted bytes.
	LinkLabel string   // Label whose address patches the last byte.
}

// Program is a listing of statements, ready to be loaded into memory.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement that emitted the byte at pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(pc) >= st.Address && int(pc) < st.Address+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(pc) - st.Address,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []uint8) {
	for _, value := range prog.Bytes() {
		bins = append(bins, value)
	}

	return
}

// Bytes iterates over each address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, value uint8) bool) {
		for _, st := range prog.Statements {
			addr := uint16(st.Address)
			for n, value := range st.Bytes {
				if !yield(addr+uint16(n), value) {
					return
				}
			}
		}
	}
}

// Size returns the number of bytes in the program.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		size += len(st.Bytes)
	}

	return
}
