// Package units converts physical setpoints into the fixed-point register
// representations used by the servo amplifier.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNotFinite  = errors.New("value is not a finite number")
	ErrOutOfRange = errors.New("value out of register range")
)

// Direction selects the sign applied to the torque setpoint.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
)

// Sign returns +1 for Forward and -1 for Reverse.
func (d Direction) Sign() int32 {
	if d == Reverse {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection accepts forward|fwd|f|+ and reverse|rev|r|- (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "f", "+":
		return Forward, nil
	case "reverse", "rev", "r", "-":
		return Reverse, nil
	}
	return Forward, fmt.Errorf("unknown direction %q", s)
}

// PercentToPermille converts a percentage to parts per thousand, rounding to
// the nearest integer. No hardware limits are applied here.
func PercentToPermille(p float64) (int32, error) {
	return scale10(p)
}

// RPMToDeciRPS converts the user speed setpoint to the velocity register unit
// (0.1 rps), rounding to the nearest integer.
func RPMToDeciRPS(v float64) (int32, error) {
	return scale10(v)
}

func scale10(v float64) (int32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNotFinite, v)
	}
	r := math.Round(v * 10)
	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v does not fit 32 bits", ErrOutOfRange, v)
	}
	return int32(r), nil
}

// SplitUint32 splits a 32-bit quantity into two registers, high word first.
func SplitUint32(v int32) (high, low uint16) {
	u := uint32(v)
	return uint16((u >> 16) & 0xFFFF), uint16(u & 0xFFFF)
}

// JoinUint32 is the inverse of SplitUint32.
func JoinUint32(high, low uint16) int32 {
	return int32(uint32(high)<<16 | uint32(low))
}

// SignedTorqueToRegister applies the direction sign to a torque magnitude in
// permille and returns its 16-bit two's-complement register encoding.
func SignedTorqueToRegister(magnitude int32, dir Direction) (uint16, error) {
	signed := int64(magnitude) * int64(dir.Sign())
	if signed < math.MinInt16 || signed > math.MaxInt16 {
		return 0, fmt.Errorf("%w: torque %d permille does not fit int16", ErrOutOfRange, signed)
	}
	return uint16(int16(signed)), nil
}

// RegisterToSignedTorque decodes a target-torque register back to signed permille.
func RegisterToSignedTorque(reg uint16) int32 {
	return int32(int16(reg))
}

// ToUnsignedRegister checks that v fits an unsigned 16-bit register.
func ToUnsignedRegister(v int32) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %d does not fit uint16", ErrOutOfRange, v)
	}
	return uint16(v), nil
}
