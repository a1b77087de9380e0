package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config   string `short:"c" long:"config" description:"Config file (default servodrive.yaml)"`
	Port     string `short:"p" long:"port" description:"Serial port, overrides the config file"`
	Simulate bool   `long:"simulate" description:"Drive an in-memory amplifier instead of a serial port"`
	LogLevel string `long:"log-level" description:"Log level: debug, info, warn, error"`
	Journal  string `long:"journal" description:"Append a CBOR write journal to this file"`

	Ports   PortsCommand   `command:"ports" description:"List serial ports"`
	Control ControlCommand `command:"control" alias:"tui" description:"Interactive control panel"`
	Shell   ShellCommand   `command:"shell" description:"Line-based control shell"`
	Run     RunCommand     `command:"run" description:"Configure, start and run until interrupted"`
	Log     JournalCommand `command:"journal" description:"Print a write journal"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "servodrive - torque-mode control for Modbus RTU servo amplifiers"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
