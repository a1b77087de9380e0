package drive

import (
	"math"
	"strconv"
	"strings"

	"github.com/gwillem/servodrive/pkg/units"
)

const (
	// MaxTorquePercent is the largest accepted torque magnitude.
	MaxTorquePercent = 100.0
	// MaxSlopePercent is the largest slope that fits the unsigned register.
	MaxSlopePercent = 6553.5
)

// Configuration holds the setpoints for one configure call. Build it with
// NewConfiguration; it cannot be changed afterwards.
type Configuration struct {
	torquePercent float64
	speedRPM      float64
	slopePercent  float64
	direction     units.Direction
}

// NewConfiguration validates the setpoints. Torque is a magnitude; its sign
// comes from dir.
func NewConfiguration(torquePercent, speedRPM, slopePercent float64, dir units.Direction) (Configuration, error) {
	if err := checkFinite("torque", torquePercent); err != nil {
		return Configuration{}, err
	}
	if err := checkFinite("speed", speedRPM); err != nil {
		return Configuration{}, err
	}
	if err := checkFinite("slope", slopePercent); err != nil {
		return Configuration{}, err
	}

	if torquePercent < 0 || torquePercent > MaxTorquePercent {
		return Configuration{}, &ValidationError{Field: "torque", Input: format(torquePercent), Reason: "must be between 0 and 100 %"}
	}
	if slopePercent < 0 || slopePercent > MaxSlopePercent {
		return Configuration{}, &ValidationError{Field: "slope", Input: format(slopePercent), Reason: "must be between 0 and 6553.5 %/s"}
	}
	if _, err := units.RPMToDeciRPS(speedRPM); err != nil {
		return Configuration{}, &ValidationError{Field: "speed", Input: format(speedRPM), Reason: err.Error()}
	}
	if dir != units.Forward && dir != units.Reverse {
		return Configuration{}, &ValidationError{Field: "direction", Input: dir.String(), Reason: "unknown direction"}
	}

	return Configuration{
		torquePercent: torquePercent,
		speedRPM:      speedRPM,
		slopePercent:  slopePercent,
		direction:     dir,
	}, nil
}

// ParseConfiguration builds a Configuration from raw text fields as typed by
// an operator.
func ParseConfiguration(torque, speed, slope, direction string) (Configuration, error) {
	t, err := parseFloat("torque", torque)
	if err != nil {
		return Configuration{}, err
	}
	s, err := parseFloat("speed", speed)
	if err != nil {
		return Configuration{}, err
	}
	sl, err := parseFloat("slope", slope)
	if err != nil {
		return Configuration{}, err
	}
	dir, err := units.ParseDirection(direction)
	if err != nil {
		return Configuration{}, &ValidationError{Field: "direction", Input: direction, Reason: "expected forward or reverse"}
	}
	return NewConfiguration(t, s, sl, dir)
}

func (c Configuration) TorquePercent() float64     { return c.torquePercent }
func (c Configuration) SpeedRPM() float64          { return c.speedRPM }
func (c Configuration) SlopePercent() float64      { return c.slopePercent }
func (c Configuration) Direction() units.Direction { return c.direction }

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Input: s, Reason: "not a number"}
	}
	return v, nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Input: format(v), Reason: "not a finite number"}
	}
	return nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
