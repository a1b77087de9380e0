package main

import (
	"fmt"

	"github.com/gwillem/servodrive/pkg/transport"
)

type PortsCommand struct{}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}

	fmt.Println(headerStyle.Render("Serial ports"))
	for _, p := range ports {
		fmt.Printf("  %s\n", p)
	}
	fmt.Println()
	fmt.Println(dimStyle.Render("Line settings: " + transport.DefaultSerialConfig("<port>").String()))
	return nil
}
