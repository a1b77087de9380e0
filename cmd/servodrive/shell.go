package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/gwillem/servodrive/pkg/drive"
)

type ShellCommand struct{}

// shell runs operator commands against one controller.
type shell struct {
	ctrl *drive.Controller
	out  io.Writer
}

func (c *ShellCommand) Execute(args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "drive> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("configure"),
			readline.PcItem("start"),
			readline.PcItem("stop"),
			readline.PcItem("disable"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	sess, err := openSession(rl.Stderr())
	if err != nil {
		return err
	}
	defer sess.Close()

	sh := &shell{ctrl: sess.ctrl, out: rl.Stdout()}
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.out, "Exiting...")
			return nil
		}
		if sh.exec(line) {
			return nil
		}
	}
}

// exec runs one command line. It reports whether the shell should exit.
func (s *shell) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
		return false

	case "status", "st":
		s.printStatus()
		return false

	case "configure", "config", "cfg":
		err = s.cmdConfigure(args)

	case "start":
		err = s.ctrl.Start()

	case "stop":
		err = s.ctrl.Stop()

	case "disable":
		err = s.ctrl.Disable()

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		return false
	}

	if err != nil {
		fmt.Fprintln(s.out, renderErr(err))
		return false
	}
	fmt.Fprintf(s.out, "OK, drive %s\n", renderState(s.ctrl.State()))
	return false
}

func (s *shell) cmdConfigure(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("usage: configure <torque %%> <speed rpm> <slope %%/s> [forward|reverse]")
	}
	direction := "forward"
	if len(args) == 4 {
		direction = args[3]
	}
	cfg, err := drive.ParseConfiguration(args[0], args[1], args[2], direction)
	if err != nil {
		return err
	}
	return s.ctrl.Configure(cfg)
}

func (s *shell) printStatus() {
	configured := "no"
	if s.ctrl.Configured() {
		configured = "yes"
	}
	fmt.Fprintf(s.out, "State:      %s\n", renderState(s.ctrl.State()))
	fmt.Fprintf(s.out, "Configured: %s\n", configured)
	fmt.Fprintf(s.out, "Session:    %s\n", s.ctrl.Session())
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `
Commands:
  configure <torque> <speed> <slope> [dir]  Write torque mode and setpoints (drive must be disabled)
  start                                     Run the enable sequence
  stop                                      Quick stop
  disable                                   Write the disable control word
  status                                    Show drive state
  help                                      Show this help
  quit                                      Disable the drive and exit`)
}
