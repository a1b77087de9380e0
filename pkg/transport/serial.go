package transport

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
)

// SerialConfig describes the RTU line. Only Port is expected to vary; the
// remaining fields are fixed by the amplifier's factory settings.
type SerialConfig struct {
	Port     string
	BaudRate int
	DataBits int
	Parity   string // "N", "E" or "O"
	StopBits int
	Timeout  time.Duration
	UnitID   byte
}

// DefaultSerialConfig returns the amplifier line settings: 9600 baud, 8N1,
// 1 s per-write timeout, unit 1.
func DefaultSerialConfig(port string) SerialConfig {
	return SerialConfig{
		Port:     port,
		BaudRate: 9600,
		DataBits: 8,
		Parity:   "N",
		StopBits: 1,
		Timeout:  time.Second,
		UnitID:   1,
	}
}

func (c SerialConfig) String() string {
	return fmt.Sprintf("%s %d %d%s%d unit=%d", c.Port, c.BaudRate, c.DataBits, c.Parity, c.StopBits, c.UnitID)
}

// ListPorts returns the serial ports present on the host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}

	out := ports[:0]
	for _, p := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
