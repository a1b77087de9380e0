package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/servodrive/pkg/drive"
	"github.com/gwillem/servodrive/pkg/journal"
	"github.com/gwillem/servodrive/pkg/units"
)

type ControlCommand struct{}

const maxLogs = 8 // journal lines shown in the log box

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	logBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// setpointInput holds the raw form fields until they are validated.
type setpointInput struct {
	torque    string
	speed     string
	slope     string
	direction units.Direction
}

type controlModel struct {
	ctrl   *drive.Controller
	events *journal.ChannelRecorder

	// Snapshot of the controller, refreshed after each operation. The
	// controller itself is only touched from the running operation.
	state      drive.State
	configured bool
	setpoints  string

	busy     string
	form     *huh.Form
	input    *setpointInput
	logs     []string
	lastErr  error
	width    int
	quitting bool
}

// Messages
type opResultMsg struct {
	op         string
	err        error
	state      drive.State
	configured bool
}
type shutdownMsg struct{}
type journalMsg journal.Event

func waitForJournal(r *journal.ChannelRecorder) tea.Cmd {
	return func() tea.Msg {
		return journalMsg(<-r.Events())
	}
}

func runOp(ctrl *drive.Controller, op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		err := fn()
		return opResultMsg{op: op, err: err, state: ctrl.State(), configured: ctrl.Configured()}
	}
}

func newSetpointForm(in *setpointInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Torque (%)").
				Description(fmt.Sprintf("0 to %g", drive.MaxTorquePercent)).
				Value(&in.torque).
				Validate(validateNumber),
			huh.NewInput().
				Title("Speed limit (rpm)").
				Value(&in.speed).
				Validate(validateNumber),
			huh.NewInput().
				Title("Torque slope (%/s)").
				Description(fmt.Sprintf("0 to %g", drive.MaxSlopePercent)).
				Value(&in.slope).
				Validate(validateNumber),
			huh.NewSelect[units.Direction]().
				Title("Direction").
				Options(
					huh.NewOption("Forward", units.Forward),
					huh.NewOption("Reverse", units.Reverse),
				).
				Value(&in.direction),
		),
	).WithShowHelp(true)
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func (m *controlModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m controlModel) Init() tea.Cmd {
	return waitForJournal(m.events)
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case journalMsg:
		ev := journal.Event(msg)
		line := ev.String()
		if ev.Error != "" {
			line = errorStyle.Render(line)
		}
		m.addLog(line)
		return m, waitForJournal(m.events)

	case opResultMsg:
		m.busy = ""
		m.lastErr = nil
		if msg.err != nil {
			m.lastErr = fmt.Errorf("%s: %w", msg.op, msg.err)
		}
		m.state = msg.state
		m.configured = msg.configured
		if !m.configured {
			m.setpoints = ""
		}
		return m, nil

	case shutdownMsg:
		m.quitting = true
		return m, tea.Quit
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m controlModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		in := m.input
		m.form = nil
		cfg, err := drive.ParseConfiguration(in.torque, in.speed, in.slope, in.direction.String())
		if err != nil {
			m.lastErr = err
			return m, nil
		}
		m.busy = "configure"
		m.setpoints = fmt.Sprintf("torque %g%%  speed %g rpm  slope %g%%/s  %s",
			cfg.TorquePercent(), cfg.SpeedRPM(), cfg.SlopePercent(), cfg.Direction())
		return m, runOp(m.ctrl, "configure", func() error { return m.ctrl.Configure(cfg) })
	}
	return m, cmd
}

func (m controlModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.busy = "shutdown"
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctrl.Shutdown()
			return shutdownMsg{}
		}

	case "c":
		if m.state != drive.Disabled {
			return m, nil
		}
		m.lastErr = nil
		m.input = &setpointInput{torque: "10", speed: "300", slope: "10"}
		m.form = newSetpointForm(m.input)
		return m, m.form.Init()

	case "s":
		if !m.configured {
			return m, nil
		}
		m.busy = "start"
		return m, runOp(m.ctrl, "start", m.ctrl.Start)

	case "x":
		if !m.configured {
			return m, nil
		}
		m.busy = "stop"
		return m, runOp(m.ctrl, "stop", m.ctrl.Stop)

	case "d":
		m.busy = "disable"
		return m, runOp(m.ctrl, "disable", m.ctrl.Disable)
	}
	return m, nil
}

func (m controlModel) View() string {
	if m.quitting {
		return "Drive disabled, connection closed.\n"
	}

	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Servo Drive Control"))
	sb.WriteString(dimStyle.Render("  session " + m.ctrl.Session()))
	sb.WriteString("\n\n")

	if m.form != nil {
		sb.WriteString(m.form.View())
		sb.WriteString("\n")
		return sb.String()
	}

	var panel strings.Builder
	fmt.Fprintf(&panel, "State:     %s\n", renderState(m.state))
	if m.configured {
		fmt.Fprintf(&panel, "Setpoints: %s\n", m.setpoints)
	} else {
		fmt.Fprintf(&panel, "Setpoints: %s\n", dimStyle.Render("not configured"))
	}
	if m.busy != "" {
		fmt.Fprintf(&panel, "Running:   %s...", m.busy)
	} else if m.lastErr != nil {
		panel.WriteString(renderErr(m.lastErr))
	} else {
		panel.WriteString(successStyle.Render("ready"))
	}
	sb.WriteString(panelStyle.Render(panel.String()))
	sb.WriteString("\n")

	sb.WriteString(m.renderKeys())
	sb.WriteString("\n")

	width := m.width - 2
	if width < 40 {
		width = 40
	}
	logLines := dimStyle.Render("No writes yet")
	if len(m.logs) > 0 {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logBoxStyle.Width(width).Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m controlModel) renderKeys() string {
	item := func(key, label string, enabled bool) string {
		if !enabled {
			return dimStyle.Render(key + " " + label)
		}
		return keyStyle.Render(key) + " " + label
	}
	idle := m.busy == ""
	items := []string{
		item("c", "configure", idle && m.state == drive.Disabled),
		item("s", "start", idle && m.configured),
		item("x", "stop", idle && m.configured),
		item("d", "disable", idle),
		item("q", "quit", idle),
	}
	return strings.Join(items, "  ")
}

func (c *ControlCommand) Execute(args []string) error {
	events := journal.NewChannelRecorder(64)

	// Logs would corrupt the alternate screen; print them after exit.
	var logBuf bytes.Buffer
	sess, err := openSession(&logBuf, events)
	if err != nil {
		return err
	}
	defer func() {
		sess.Close()
		os.Stderr.Write(logBuf.Bytes())
	}()

	model := controlModel{
		ctrl:   sess.ctrl,
		events: events,
		state:  sess.ctrl.State(),
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run control panel: %w", err)
	}
	return nil
}
