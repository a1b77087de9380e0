package drive

import (
	"fmt"
	"strings"
)

// ValidationError reports input rejected before any register is written.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// ConnectionError reports that the serial line could not be opened.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WriteError reports a failed register write.
type WriteError struct {
	Address uint16
	Values  []uint16
	Err     error
}

func (e *WriteError) Error() string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = fmt.Sprintf("0x%04X", v)
	}
	return fmt.Sprintf("write 0x%04X <- %s: %v", e.Address, strings.Join(vals, ","), e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SequenceAborted reports the first failed write of a multi-write sequence.
// Step is 1-based.
type SequenceAborted struct {
	Operation string
	Step      int
	Write     *WriteError
}

func (e *SequenceAborted) Error() string {
	return fmt.Sprintf("%s aborted at step %d: %v", e.Operation, e.Step, e.Write)
}

func (e *SequenceAborted) Unwrap() error { return e.Write }

// InvalidStateError reports an operation attempted from a state where it is
// not allowed.
type InvalidStateError struct {
	Operation string
	State     State
	Reason    string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not allowed in state %s: %s", e.Operation, e.State, e.Reason)
	}
	return fmt.Sprintf("%s not allowed in state %s", e.Operation, e.State)
}
