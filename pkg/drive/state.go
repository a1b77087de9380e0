package drive

import "fmt"

// State is the amplifier's power state as tracked by the controller.
type State uint8

const (
	Disabled State = iota
	ReadyToSwitchOn
	SwitchedOn
	// OperationStaged is operation enabled with the run bit not yet set.
	OperationStaged
	OperationEnabled
	QuickStopped
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "Disabled"
	case ReadyToSwitchOn:
		return "ReadyToSwitchOn"
	case SwitchedOn:
		return "SwitchedOn"
	case OperationStaged:
		return "OperationStaged"
	case OperationEnabled:
		return "OperationEnabled"
	case QuickStopped:
		return "QuickStopped"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ControlWord is a value written to the control word register.
type ControlWord uint16

const (
	CWDisable         ControlWord = 0x0000
	CWShutdown        ControlWord = 0x0001
	CWSwitchOn        ControlWord = 0x0003
	CWEnableOperation ControlWord = 0x000F
	CWRun             ControlWord = 0x001F
	CWQuickStop       ControlWord = 0x011F
)

func (cw ControlWord) String() string {
	return fmt.Sprintf("0x%04X (%s)", uint16(cw), cw.Name())
}

// Name returns the command name, such as "switch-on".
func (cw ControlWord) Name() string {
	switch cw {
	case CWDisable:
		return "disable"
	case CWShutdown:
		return "shutdown"
	case CWSwitchOn:
		return "switch-on"
	case CWEnableOperation:
		return "enable-operation"
	case CWRun:
		return "run"
	case CWQuickStop:
		return "quick-stop"
	}
	return "unknown"
}

// startSequence is the ascent from Disabled to OperationEnabled.
var startSequence = []ControlWord{CWShutdown, CWSwitchOn, CWEnableOperation, CWRun}

// transitions lists the legal control words per state. CWDisable and
// CWQuickStop are handled in Next since they apply to many states.
var transitions = map[State]map[ControlWord]State{
	Disabled:        {CWShutdown: ReadyToSwitchOn},
	ReadyToSwitchOn: {CWSwitchOn: SwitchedOn},
	SwitchedOn:      {CWEnableOperation: OperationStaged},
	OperationStaged: {CWRun: OperationEnabled},
}

// StateMachine tracks the drive state and validates control words against it.
// The zero value is in Disabled.
type StateMachine struct {
	state State
}

// State returns the current state.
func (m *StateMachine) State() State {
	return m.state
}

// Next returns the state cw leads to from the current state, or false if cw
// is not legal here.
func (m *StateMachine) Next(cw ControlWord) (State, bool) {
	switch cw {
	case CWDisable:
		return Disabled, true
	case CWQuickStop:
		if m.state == Disabled {
			return m.state, false
		}
		return QuickStopped, true
	}
	to, ok := transitions[m.state][cw]
	return to, ok
}

// Apply advances the machine for a control word that was accepted by the
// amplifier. It returns the previous state.
func (m *StateMachine) Apply(cw ControlWord) (State, error) {
	to, ok := m.Next(cw)
	if !ok {
		return m.state, fmt.Errorf("control word %s is not legal in state %s", cw, m.state)
	}
	from := m.state
	m.state = to
	return from, nil
}
