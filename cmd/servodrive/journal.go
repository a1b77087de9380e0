package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/gwillem/servodrive/pkg/drive"
	"github.com/gwillem/servodrive/pkg/journal"
	"github.com/gwillem/servodrive/pkg/units"
)

type JournalCommand struct {
	Session string `long:"session" description:"Only show events of this session"`
	Args    struct {
		File string `positional-arg-name:"file" required:"true"`
	} `positional-args:"yes"`
}

func (c *JournalCommand) Execute(args []string) error {
	r, err := journal.NewReader(c.Args.File, c.Session)
	if err != nil {
		return err
	}
	defer r.Close()

	session := ""
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if ev.Session != session {
			session = ev.Session
			fmt.Println(headerStyle.Render("session " + session))
		}

		line := ev.String()
		if ev.Kind == journal.KindWrite {
			if phys := describeWrite(ev.Address, ev.Values); phys != "" {
				line += " (" + phys + ")"
			}
		}
		switch {
		case ev.Error != "":
			line = errorStyle.Render(line)
		case ev.Kind == journal.KindTransition:
			line = keyStyle.Render(line)
		case ev.Kind == journal.KindLifecycle:
			line = dimStyle.Render(line)
		}
		fmt.Println("  " + line)
	}
}

// describeWrite decodes a setpoint write back to physical units.
func describeWrite(address uint16, values []uint16) string {
	switch {
	case address == drive.RegTargetTorque && len(values) == 1:
		return fmt.Sprintf("torque %.1f%%", float64(units.RegisterToSignedTorque(values[0]))/10)
	case address == drive.RegTargetVelocity && len(values) == 2:
		return fmt.Sprintf("speed %.1f rpm", float64(units.JoinUint32(values[0], values[1]))/10)
	case address == drive.RegTorqueSlope && len(values) == 1:
		return fmt.Sprintf("slope %.1f%%/s", float64(values[0])/10)
	case address == drive.RegModeOfOperation && len(values) == 1 && values[0] == drive.ModeTorque:
		return "torque mode"
	case address == drive.RegControlWord && len(values) == 1:
		return drive.ControlWord(values[0]).Name()
	}
	return ""
}
