package journal

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Recorder receives journal events. Implementations must be safe for
// concurrent use and must not block for long.
type Recorder interface {
	Record(event Event)
}

// NoopRecorder discards all events.
type NoopRecorder struct{}

func (NoopRecorder) Record(Event) {}

// FileRecorder appends events to a file as a CBOR stream.
type FileRecorder struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileRecorder opens path for appending, creating it with 0644 if needed.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record writes event to the file. Encoding errors are dropped; the journal
// must not interfere with driving the amplifier.
func (r *FileRecorder) Record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	_ = r.encoder.Encode(event)
}

// Close closes the file. Subsequent Record calls are ignored.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// SlogRecorder forwards events to a slog.Logger at debug level.
type SlogRecorder struct {
	logger *slog.Logger
}

func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	return &SlogRecorder{logger: logger}
}

func (r *SlogRecorder) Record(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.Session),
		slog.String("kind", event.Kind.String()),
	}

	switch event.Kind {
	case KindWrite:
		attrs = append(attrs,
			slog.String("address", hex16(event.Address)),
			slog.Any("values", hexValues(event.Values)),
			slog.Bool("ok", event.OK),
		)
	case KindTransition:
		attrs = append(attrs, slog.String("from", event.From), slog.String("to", event.To))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("err", event.Error))
	}

	msg := event.Message
	if msg == "" {
		msg = "journal"
	}
	r.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// ChannelRecorder delivers events on a buffered channel, dropping events
// when the consumer falls behind.
type ChannelRecorder struct {
	ch chan Event
}

func NewChannelRecorder(size int) *ChannelRecorder {
	if size <= 0 {
		size = 16
	}
	return &ChannelRecorder{ch: make(chan Event, size)}
}

func (r *ChannelRecorder) Record(event Event) {
	select {
	case r.ch <- event:
	default:
		// Drop if channel full
	}
}

// Events returns the receive side of the channel.
func (r *ChannelRecorder) Events() <-chan Event {
	return r.ch
}

// Multi fans events out to several recorders.
type Multi []Recorder

func (m Multi) Record(event Event) {
	for _, r := range m {
		if r != nil {
			r.Record(event)
		}
	}
}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*FileRecorder)(nil)
	_ Recorder = (*SlogRecorder)(nil)
	_ Recorder = (*ChannelRecorder)(nil)
	_ Recorder = Multi(nil)
)
