// Package transport provides the register-oriented serial link to the
// amplifier: the write contract consumed by the drive sequencer, a Modbus RTU
// implementation, and an in-memory simulator.
package transport

import (
	"fmt"
	"strings"
)

// RegisterWriter performs register writes against one unit on the line.
type RegisterWriter interface {
	// WriteSingleRegister writes one holding register.
	WriteSingleRegister(address, value uint16) error

	// WriteMultipleRegisters writes consecutive holding registers starting at address.
	WriteMultipleRegisters(address uint16, values []uint16) error
}

// Transport is a RegisterWriter with an explicit connection lifecycle.
type Transport interface {
	RegisterWriter

	// Open connects the line. Calling Open on an open transport is a no-op.
	Open() error

	// Close releases the line.
	Close() error

	// Name identifies the line in logs and errors (usually the port path).
	Name() string
}

// Write is a single register write as produced by the drive sequencer.
type Write struct {
	Address  uint16
	Values   []uint16
	Multiple bool
}

// Single builds a single-register write.
func Single(address, value uint16) Write {
	return Write{Address: address, Values: []uint16{value}}
}

// Multiple builds a multi-register write; values are written in order
// starting at address.
func Multiple(address uint16, values ...uint16) Write {
	return Write{Address: address, Values: values, Multiple: true}
}

func (w Write) String() string {
	vals := make([]string, len(w.Values))
	for i, v := range w.Values {
		vals[i] = fmt.Sprintf("0x%04X", v)
	}
	if w.Multiple {
		return fmt.Sprintf("0x%04X <- [%s]", w.Address, strings.Join(vals, ", "))
	}
	return fmt.Sprintf("0x%04X <- %s", w.Address, strings.Join(vals, ", "))
}

// Apply issues w through rw using the matching function.
func Apply(rw RegisterWriter, w Write) error {
	if w.Multiple {
		return rw.WriteMultipleRegisters(w.Address, w.Values)
	}
	if len(w.Values) != 1 {
		return fmt.Errorf("single write to 0x%04X carries %d values", w.Address, len(w.Values))
	}
	return rw.WriteSingleRegister(w.Address, w.Values[0])
}
