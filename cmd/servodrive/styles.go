package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/servodrive/pkg/drive"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// State colors
var stateColors = map[drive.State]string{
	drive.Disabled:         "241", // grey
	drive.ReadyToSwitchOn:  "226", // yellow
	drive.SwitchedOn:       "214", // amber
	drive.OperationStaged:  "208", // orange
	drive.OperationEnabled: "46",  // green
	drive.QuickStopped:     "196", // red
}

func renderState(s drive.State) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(stateColors[s])).Render(s.String())
}

func renderErr(err error) string {
	return errorStyle.Render("error: " + err.Error())
}
