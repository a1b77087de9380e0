// Package drive sequences a servo amplifier through its enable/disable
// progression and writes torque-mode setpoints.
//
// # State progression
//
// Every transition is one write to the control word register (0x6040). The
// local state advances only after the amplifier accepted the write.
//
//	Disabled         --0x0001--> ReadyToSwitchOn
//	ReadyToSwitchOn  --0x0003--> SwitchedOn
//	SwitchedOn       --0x000F--> OperationStaged
//	OperationStaged  --0x001F--> OperationEnabled   (motion starts)
//	any but Disabled --0x011F--> QuickStopped
//	any              --0x0000--> Disabled
//
// # Operations
//
//   - Configure: Disabled only. Writes mode (0x6060), velocity (0x6081, two
//     registers, high word first), signed torque (0x6071) and torque slope
//     (0x6087), in that order.
//   - Start: configured and Disabled. Writes the four ascent control words.
//   - Stop: configured. Quick stop.
//   - Disable: back to Disabled, connection kept.
//   - Shutdown: disable, then release the connection. Never fails.
//
// Consecutive writes in a sequence are separated by a settle delay
// (DefaultSettleDelay); the firmware rejects commands that arrive back to
// back. A sequence stops at the first failed write and reports a
// SequenceAborted naming the step. Nothing is retried.
package drive
