// Package journal records what a drive session did on the wire: every
// register write with its outcome, every state transition, and session
// lifecycle markers. Events can be written to a CBOR file, forwarded to slog,
// or streamed to a UI over a channel.
package journal

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies an event.
type Kind uint8

const (
	// KindWrite is a single register write attempt.
	KindWrite Kind = 0
	// KindTransition is a drive state change.
	KindTransition Kind = 1
	// KindLifecycle marks connection open/close and session boundaries.
	KindLifecycle Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindWrite:
		return "WRITE"
	case KindTransition:
		return "TRANSITION"
	case KindLifecycle:
		return "LIFECYCLE"
	default:
		return "UNKNOWN"
	}
}

// Event is one journal entry. CBOR encoding uses integer keys.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Session   string    `cbor:"2,keyasint"`
	Kind      Kind      `cbor:"3,keyasint"`

	// Write fields.
	Address  uint16   `cbor:"4,keyasint,omitempty"`
	Values   []uint16 `cbor:"5,keyasint,omitempty"`
	Multiple bool     `cbor:"6,keyasint,omitempty"`
	OK       bool     `cbor:"7,keyasint,omitempty"`
	Error    string   `cbor:"8,keyasint,omitempty"`

	// Transition fields.
	From string `cbor:"9,keyasint,omitempty"`
	To   string `cbor:"10,keyasint,omitempty"`

	Message string `cbor:"11,keyasint,omitempty"`
}

// String renders the event on one line.
func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05.000"))
	sb.WriteString(" ")

	switch e.Kind {
	case KindWrite:
		status := "ok"
		if !e.OK {
			status = "FAILED"
		}
		vals := hexValues(e.Values)
		if e.Multiple {
			fmt.Fprintf(&sb, "write 0x%04X [%s] %s", e.Address, strings.Join(vals, ", "), status)
		} else {
			fmt.Fprintf(&sb, "write 0x%04X %s %s", e.Address, strings.Join(vals, ", "), status)
		}
		if e.Error != "" {
			fmt.Fprintf(&sb, ": %s", e.Error)
		}
	case KindTransition:
		fmt.Fprintf(&sb, "state %s -> %s", e.From, e.To)
	default:
		sb.WriteString(e.Message)
		if e.Error != "" {
			fmt.Fprintf(&sb, ": %s", e.Error)
		}
	}

	if e.Kind != KindLifecycle && e.Message != "" {
		fmt.Fprintf(&sb, " (%s)", e.Message)
	}
	return sb.String()
}
