// Package io provides output channel implementations for the LS-8 machine.
// The PRN instruction hands each printed register value to a Channel.
package io

// Channel defines the interface for the machine's output channel.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single register value to the channel.
	Send(value uint8) error
}
