package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gwillem/servodrive/pkg/drive"
	"github.com/gwillem/servodrive/pkg/units"
)

type RunCommand struct {
	Torque  float64 `short:"t" long:"torque" required:"true" description:"Target torque magnitude in %"`
	Speed   float64 `short:"s" long:"speed" required:"true" description:"Speed limit in rpm"`
	Slope   float64 `long:"slope" default:"10" description:"Torque slope in %/s"`
	Reverse bool    `short:"r" long:"reverse" description:"Apply torque in reverse"`
}

func (c *RunCommand) Execute(args []string) error {
	dir := units.Forward
	if c.Reverse {
		dir = units.Reverse
	}
	cfg, err := drive.NewConfiguration(c.Torque, c.Speed, c.Slope, dir)
	if err != nil {
		return err
	}

	sess, err := openSession(os.Stderr)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctrl := sess.ctrl
	if err := ctrl.Configure(cfg); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	fmt.Println(successStyle.Render("Setpoints written."))

	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	fmt.Printf("Drive %s. Press Ctrl+C to stop.\n", renderState(ctrl.State()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	fmt.Println()
	if err := ctrl.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, renderErr(err))
	} else {
		fmt.Printf("Drive %s.\n", renderState(ctrl.State()))
	}
	return nil
}
