package transport

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/goburrow/modbus"
)

// RTU is a Transport over a Modbus RTU serial line.
type RTU struct {
	cfg     SerialConfig
	handler *modbus.RTUClientHandler
	client  modbus.Client
	open    bool
}

// NewRTU prepares an RTU link. The port is not opened until Open.
// Frame-level traces go to logger at debug level; logger may be nil.
func NewRTU(cfg SerialConfig, logger *slog.Logger) *RTU {
	handler := modbus.NewRTUClientHandler(cfg.Port)
	handler.BaudRate = cfg.BaudRate
	handler.DataBits = cfg.DataBits
	handler.Parity = cfg.Parity
	handler.StopBits = cfg.StopBits
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID
	if logger != nil {
		handler.Logger = slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
	}

	return &RTU{
		cfg:     cfg,
		handler: handler,
		client:  modbus.NewClient(handler),
	}
}

// Name returns the serial port path.
func (r *RTU) Name() string {
	return r.cfg.Port
}

// Open opens the serial port.
func (r *RTU) Open() error {
	if r.open {
		return nil
	}
	if err := r.handler.Connect(); err != nil {
		return fmt.Errorf("open %s: %w", r.cfg.Port, err)
	}
	r.open = true
	return nil
}

// Close closes the serial port. Closing a closed link is a no-op.
func (r *RTU) Close() error {
	if !r.open {
		return nil
	}
	r.open = false
	return r.handler.Close()
}

// WriteSingleRegister issues function 0x06. The client verifies the echoed
// address and value.
func (r *RTU) WriteSingleRegister(address, value uint16) error {
	if !r.open {
		return fmt.Errorf("write 0x%04X: %s is not open", address, r.cfg.Port)
	}
	if _, err := r.client.WriteSingleRegister(address, value); err != nil {
		return fmt.Errorf("write 0x%04X: %w", address, err)
	}
	return nil
}

// WriteMultipleRegisters issues function 0x10 with values in big-endian order.
func (r *RTU) WriteMultipleRegisters(address uint16, values []uint16) error {
	if !r.open {
		return fmt.Errorf("write 0x%04X: %s is not open", address, r.cfg.Port)
	}
	if _, err := r.client.WriteMultipleRegisters(address, uint16(len(values)), encodeRegisters(values)); err != nil {
		return fmt.Errorf("write 0x%04X: %w", address, err)
	}
	return nil
}

func encodeRegisters(values []uint16) []byte {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint16(buf[2*i:], v)
	}
	return buf
}

var _ Transport = (*RTU)(nil)
