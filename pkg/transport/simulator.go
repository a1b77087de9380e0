package transport

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotOpen is returned by the simulator for writes on a closed link.
var ErrNotOpen = errors.New("link not open")

// Simulator is an in-memory Transport holding a register image. It records
// every accepted write in order and can inject failures. It backs the CLI's
// simulate mode and the drive tests.
type Simulator struct {
	// FailWrite, when set, is consulted before each write; a non-nil result
	// rejects the write and leaves the register image untouched.
	FailWrite func(w Write) error
	// OpenErr is returned by Open when set.
	OpenErr error
	// CloseErr is returned by Close when set.
	CloseErr error

	mu        sync.Mutex
	name      string
	open      bool
	opens     int
	registers map[uint16]uint16
	writes    []Write
	attempts  []Write
}

// NewSimulator returns a closed simulator with an empty register image.
func NewSimulator(name string) *Simulator {
	if name == "" {
		name = "simulator"
	}
	return &Simulator{
		name:      name,
		registers: make(map[uint16]uint16),
	}
}

func (s *Simulator) Name() string { return s.name }

func (s *Simulator) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}
	if s.OpenErr != nil {
		return s.OpenErr
	}
	s.open = true
	s.opens++
	return nil
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	return s.CloseErr
}

func (s *Simulator) WriteSingleRegister(address, value uint16) error {
	return s.write(Single(address, value))
}

func (s *Simulator) WriteMultipleRegisters(address uint16, values []uint16) error {
	vals := append([]uint16(nil), values...)
	return s.write(Multiple(address, vals...))
}

func (s *Simulator) write(w Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, w)
	if !s.open {
		return fmt.Errorf("write 0x%04X: %w", w.Address, ErrNotOpen)
	}
	if s.FailWrite != nil {
		if err := s.FailWrite(w); err != nil {
			return err
		}
	}
	for i, v := range w.Values {
		s.registers[w.Address+uint16(i)] = v
	}
	s.writes = append(s.writes, w)
	return nil
}

// IsOpen reports whether the link is open.
func (s *Simulator) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Opens returns how many times the link transitioned from closed to open.
func (s *Simulator) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// Register returns the last value written to address.
func (s *Simulator) Register(address uint16) (uint16, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.registers[address]
	return v, ok
}

// Writes returns the accepted writes in order.
func (s *Simulator) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Attempts returns every write issued, accepted or not.
func (s *Simulator) Attempts() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.attempts...)
}

// Reset clears the write log and register image.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
	s.attempts = nil
	s.registers = make(map[uint16]uint16)
}

var _ Transport = (*Simulator)(nil)
