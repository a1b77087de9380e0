package journal

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvent(session string, addr uint16, ok bool, values ...uint16) Event {
	return Event{
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC),
		Session:   session,
		Kind:      KindWrite,
		Address:   addr,
		Values:    values,
		OK:        ok,
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	in := writeEvent("s1", 0x6081, true, 0x0000, 0x04B0)
	in.Multiple = true

	data, err := EncodeEvent(in)
	require.NoError(t, err)

	out, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.True(t, in.Timestamp.Equal(out.Timestamp), "timestamp keeps nanosecond precision")
	assert.Equal(t, in.Session, out.Session)
	assert.Equal(t, in.Address, out.Address)
	assert.Equal(t, in.Values, out.Values)
	assert.True(t, out.Multiple)
	assert.True(t, out.OK)
}

func TestFileRecorderAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.journal")

	rec, err := NewFileRecorder(path)
	require.NoError(t, err)

	rec.Record(writeEvent("a", 0x6060, true, 0x0004))
	rec.Record(writeEvent("b", 0x6040, false, 0x000F))
	rec.Record(Event{Session: "a", Kind: KindTransition, From: "Disabled", To: "ReadyToSwitchOn"})
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "second close is a no-op")

	rec.Record(writeEvent("a", 0x6071, true, 1)) // ignored after close

	r, err := NewReader(path, "")
	require.NoError(t, err)
	defer r.Close()

	var all []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		all = append(all, ev)
	}
	require.Len(t, all, 3)
	assert.Equal(t, uint16(0x6060), all[0].Address)
	assert.False(t, all[1].OK)
	assert.Equal(t, KindTransition, all[2].Kind)
}

func TestReaderFiltersSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.journal")

	rec, err := NewFileRecorder(path)
	require.NoError(t, err)
	rec.Record(writeEvent("a", 0x6060, true, 4))
	rec.Record(writeEvent("b", 0x6071, true, 500))
	rec.Record(writeEvent("a", 0x6087, true, 200))
	require.NoError(t, rec.Close())

	r, err := NewReader(path, "a")
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	second, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, uint16(0x6060), first.Address)
	assert.Equal(t, uint16(0x6087), second.Address)
}

func TestReaderTruncatedFile(t *testing.T) {
	data, err := EncodeEvent(writeEvent("a", 0x6060, true, 4))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "broken.journal")
	require.NoError(t, os.WriteFile(path, data[:len(data)-2], 0644))

	r, err := NewReader(path, "")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestChannelRecorderDropsWhenFull(t *testing.T) {
	rec := NewChannelRecorder(2)
	for i := 0; i < 5; i++ {
		rec.Record(writeEvent("a", uint16(i), true, 0))
	}

	assert.Len(t, rec.Events(), 2)
	ev := <-rec.Events()
	assert.Equal(t, uint16(0), ev.Address)
}

func TestMultiRecorder(t *testing.T) {
	a := NewChannelRecorder(4)
	b := NewChannelRecorder(4)
	m := Multi{a, nil, b, NoopRecorder{}}

	m.Record(writeEvent("a", 0x6040, true, 1))

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}

func TestSlogRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := NewSlogRecorder(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	rec.Record(writeEvent("s", 0x6040, true, 0x0001))
	assert.Empty(t, buf.String(), "events are debug level")

	rec = NewSlogRecorder(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	failed := writeEvent("s", 0x6040, false, 0x000F)
	failed.Error = "timeout"
	rec.Record(failed)

	out := buf.String()
	assert.Contains(t, out, "address=0x6040")
	assert.Contains(t, out, "ok=false")
	assert.Contains(t, out, "err=timeout")
}

func TestEventString(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "single",
			ev:   writeEvent("s", 0x6071, true, 0xFE0C),
			want: "write 0x6071 0xFE0C ok",
		},
		{
			name: "multiple",
			ev:   Event{Kind: KindWrite, Address: 0x6081, Values: []uint16{0, 0x04B0}, Multiple: true, OK: true},
			want: "write 0x6081 [0x0000, 0x04B0] ok",
		},
		{
			name: "failed",
			ev:   Event{Kind: KindWrite, Address: 0x6040, Values: []uint16{0x000F}, Error: "timeout"},
			want: "write 0x6040 0x000F FAILED: timeout",
		},
		{
			name: "transition",
			ev:   Event{Kind: KindTransition, From: "SwitchedOn", To: "OperationStaged", Message: "0x000F"},
			want: "state SwitchedOn -> OperationStaged (0x000F)",
		},
		{
			name: "lifecycle",
			ev:   Event{Kind: KindLifecycle, Message: "connection opened"},
			want: "connection opened",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ev.String()
			assert.True(t, strings.HasSuffix(got, tt.want), "got %q, want suffix %q", got, tt.want)
		})
	}
}
