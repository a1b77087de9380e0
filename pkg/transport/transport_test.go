package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSerialConfig(t *testing.T) {
	cfg := DefaultSerialConfig("/dev/ttyUSB0")

	assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, 8, cfg.DataBits)
	assert.Equal(t, "N", cfg.Parity)
	assert.Equal(t, 1, cfg.StopBits)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, byte(1), cfg.UnitID)
	assert.Equal(t, "/dev/ttyUSB0 9600 8N1 unit=1", cfg.String())
}

func TestNewRTUAppliesLineSettings(t *testing.T) {
	r := NewRTU(DefaultSerialConfig("COM4"), nil)

	assert.Equal(t, "COM4", r.Name())
	assert.Equal(t, "COM4", r.handler.Address)
	assert.Equal(t, 9600, r.handler.BaudRate)
	assert.Equal(t, "N", r.handler.Parity)
	assert.Equal(t, byte(1), r.handler.SlaveId)
	assert.Equal(t, time.Second, r.handler.Timeout)
	assert.Nil(t, r.handler.Logger)
}

func TestRTURejectsWritesWhenClosed(t *testing.T) {
	r := NewRTU(DefaultSerialConfig("COM4"), nil)

	assert.Error(t, r.WriteSingleRegister(0x6040, 0x0001))
	assert.Error(t, r.WriteMultipleRegisters(0x6081, []uint16{0, 1}))
	assert.NoError(t, r.Close(), "closing a never-opened link is a no-op")
}

func TestEncodeRegisters(t *testing.T) {
	got := encodeRegisters([]uint16{0x0000, 0x04B0, 0xFE0C})
	assert.Equal(t, []byte{0x00, 0x00, 0x04, 0xB0, 0xFE, 0x0C}, got)
}

func TestWriteString(t *testing.T) {
	assert.Equal(t, "0x6060 <- 0x0004", Single(0x6060, 4).String())
	assert.Equal(t, "0x6081 <- [0x0000, 0x04B0]", Multiple(0x6081, 0, 0x04B0).String())
}

func TestApplyDispatches(t *testing.T) {
	sim := NewSimulator("")
	require.NoError(t, sim.Open())

	require.NoError(t, Apply(sim, Single(0x6060, 4)))
	require.NoError(t, Apply(sim, Multiple(0x6081, 0x0001, 0x0002)))

	writes := sim.Writes()
	require.Len(t, writes, 2)
	assert.False(t, writes[0].Multiple)
	assert.True(t, writes[1].Multiple)

	v, ok := sim.Register(0x6082)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0002), v)

	assert.Error(t, Apply(sim, Write{Address: 0x6071}), "single write without a value")
}

func TestSimulatorLifecycle(t *testing.T) {
	sim := NewSimulator("sim0")
	assert.Equal(t, "sim0", sim.Name())

	err := sim.WriteSingleRegister(0x6040, 1)
	assert.True(t, errors.Is(err, ErrNotOpen))
	assert.Len(t, sim.Attempts(), 1)
	assert.Empty(t, sim.Writes())

	require.NoError(t, sim.Open())
	require.NoError(t, sim.Open())
	assert.Equal(t, 1, sim.Opens())
	assert.True(t, sim.IsOpen())

	require.NoError(t, sim.Close())
	assert.False(t, sim.IsOpen())

	sim.OpenErr = errors.New("no such port")
	assert.Error(t, sim.Open())
}

func TestSimulatorFailureInjection(t *testing.T) {
	sim := NewSimulator("")
	require.NoError(t, sim.Open())

	rejected := errors.New("exception 0x04")
	sim.FailWrite = func(w Write) error {
		if w.Address == 0x6071 {
			return rejected
		}
		return nil
	}

	assert.NoError(t, sim.WriteSingleRegister(0x6060, 4))
	assert.ErrorIs(t, sim.WriteSingleRegister(0x6071, 500), rejected)

	_, ok := sim.Register(0x6071)
	assert.False(t, ok)
	assert.Len(t, sim.Writes(), 1)
	assert.Len(t, sim.Attempts(), 2)

	sim.Reset()
	assert.Empty(t, sim.Attempts())
}
