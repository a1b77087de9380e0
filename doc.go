// Package servodrive runs servo amplifiers in torque mode over Modbus RTU.
//
// It writes the torque-mode setpoints to an amplifier and then walks the
// drive through its power states with control-word writes, pausing between
// writes so the firmware can settle.
//
// # Installation
//
//	go install github.com/gwillem/servodrive/cmd/servodrive@latest
//
// # Usage
//
// List serial ports, then open the control panel on one of them:
//
//	servodrive ports
//	servodrive -p /dev/ttyUSB0 control
//
// Without hardware, drive an in-memory amplifier:
//
//	servodrive --simulate --journal writes.cbor shell
//	servodrive journal writes.cbor
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/servodrive: CLI with ports, control, shell, run and journal commands
//   - pkg/drive: State machine, configuration sequence and drive controller
//   - pkg/units: Setpoint to register conversions
//   - pkg/transport: Modbus RTU register transport and simulator
//   - pkg/journal: Write journal recorders and CBOR codec
//   - pkg/config: YAML and environment configuration
package servodrive
