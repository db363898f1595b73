package io

import (
	"fmt"
	"io"
)

// Tape writes each value sent to it as a decimal line on Output.
type Tape struct {
	Output io.Writer

	Sent int // Values written since the last rewind.
}

var _ Channel = (*Tape)(nil)

// Rewind clears the sent counter; the output itself cannot be rewound.
func (tc *Tape) Rewind() {
	tc.Sent = 0
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrTapeMissing
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Sent++

	return
}
