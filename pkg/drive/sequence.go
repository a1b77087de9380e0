package drive

import (
	"fmt"

	"github.com/gwillem/servodrive/pkg/transport"
	"github.com/gwillem/servodrive/pkg/units"
)

// Register addresses.
const (
	RegControlWord     uint16 = 0x6040
	RegModeOfOperation uint16 = 0x6060
	RegTargetTorque    uint16 = 0x6071
	RegTargetVelocity  uint16 = 0x6081
	RegTorqueSlope     uint16 = 0x6087
)

// ModeTorque selects profile torque mode in the mode-of-operation register.
const ModeTorque uint16 = 0x0004

// Sequence translates a configuration into its ordered register writes:
// mode of operation, target velocity (high, low), signed target torque and
// torque slope. Mode comes first; the firmware ignores setpoints for a mode
// it is not in.
func Sequence(cfg Configuration) ([]transport.Write, error) {
	speed, err := units.RPMToDeciRPS(cfg.speedRPM)
	if err != nil {
		return nil, fmt.Errorf("speed: %w", err)
	}
	high, low := units.SplitUint32(speed)

	torque, err := units.PercentToPermille(cfg.torquePercent)
	if err != nil {
		return nil, fmt.Errorf("torque: %w", err)
	}
	torqueReg, err := units.SignedTorqueToRegister(torque, cfg.direction)
	if err != nil {
		return nil, fmt.Errorf("torque: %w", err)
	}

	slope, err := units.PercentToPermille(cfg.slopePercent)
	if err != nil {
		return nil, fmt.Errorf("slope: %w", err)
	}
	slopeReg, err := units.ToUnsignedRegister(slope)
	if err != nil {
		return nil, fmt.Errorf("slope: %w", err)
	}

	return []transport.Write{
		transport.Single(RegModeOfOperation, ModeTorque),
		transport.Multiple(RegTargetVelocity, high, low),
		transport.Single(RegTargetTorque, torqueReg),
		transport.Single(RegTorqueSlope, slopeReg),
	}, nil
}

func controlWrite(cw ControlWord) transport.Write {
	return transport.Single(RegControlWord, uint16(cw))
}
