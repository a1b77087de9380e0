package drive

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/gwillem/servodrive/pkg/journal"
	"github.com/gwillem/servodrive/pkg/transport"
)

// DefaultSettleDelay is the pause between consecutive writes of a sequence.
const DefaultSettleDelay = 100 * time.Millisecond

// Controller drives one amplifier over one transport. It is not safe for
// concurrent use; callers serialize operations.
type Controller struct {
	link       transport.Transport
	machine    StateMachine
	connected  bool
	configured bool

	settle   time.Duration
	sleep    func(time.Duration)
	now      func() time.Time
	logger   *slog.Logger
	recorder journal.Recorder
	session  string
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) { c.settle = d }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRecorder sets the journal recorder.
func WithRecorder(r journal.Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// NewController creates a controller in Disabled. The transport is opened by
// the first Configure.
func NewController(link transport.Transport, opts ...Option) *Controller {
	c := &Controller{
		link:     link,
		settle:   DefaultSettleDelay,
		sleep:    time.Sleep,
		now:      time.Now,
		logger:   slog.Default(),
		recorder: journal.NoopRecorder{},
		session:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("session", c.session, "port", link.Name())
	return c
}

// State returns the last state confirmed by a successful write.
func (c *Controller) State() State {
	return c.machine.State()
}

// Configured reports whether setpoints were written successfully. Start and
// Stop are only available once it is true.
func (c *Controller) Configured() bool {
	return c.configured
}

// Session returns the identifier stamped on journal events.
func (c *Controller) Session() string {
	return c.session
}

// Configure writes mode and setpoints. It is only allowed in Disabled, since
// rewriting setpoints on an energised drive makes the output jump.
func (c *Controller) Configure(cfg Configuration) error {
	if st := c.machine.State(); st != Disabled {
		return &InvalidStateError{Operation: "configure", State: st, Reason: "disable the drive first"}
	}

	writes, err := Sequence(cfg)
	if err != nil {
		return &ValidationError{Field: "configuration", Input: fmt.Sprintf("%+v", cfg), Reason: err.Error()}
	}

	if err := c.connect(); err != nil {
		return err
	}

	c.configured = false
	c.logger.Info("configuring drive",
		"torque_percent", cfg.torquePercent,
		"speed_rpm", cfg.speedRPM,
		"slope_percent", cfg.slopePercent,
		"direction", cfg.direction.String(),
	)

	for i, w := range writes {
		if i > 0 {
			c.sleep(c.settle)
		}
		if werr := c.write(w); werr != nil {
			return &SequenceAborted{Operation: "configure", Step: i + 1, Write: werr}
		}
	}

	c.configured = true
	return nil
}

// Start runs the ascent Disabled -> ReadyToSwitchOn -> SwitchedOn ->
// OperationStaged -> OperationEnabled. On a failed write the state stays at
// the last accepted step.
func (c *Controller) Start() error {
	st := c.machine.State()
	if !c.configured {
		return &InvalidStateError{Operation: "start", State: st, Reason: "drive is not configured"}
	}
	if st != Disabled {
		return &InvalidStateError{Operation: "start", State: st}
	}

	for i, cw := range startSequence {
		if i > 0 {
			c.sleep(c.settle)
		}
		if werr := c.command(cw); werr != nil {
			return &SequenceAborted{Operation: "start", Step: i + 1, Write: werr}
		}
	}
	return nil
}

// Stop issues a quick stop. In Disabled there is nothing to stop and no write
// is made.
func (c *Controller) Stop() error {
	st := c.machine.State()
	if !c.configured {
		return &InvalidStateError{Operation: "stop", State: st, Reason: "drive is not configured"}
	}
	if st == Disabled {
		c.logger.Info("stop requested while disabled")
		return nil
	}
	if werr := c.command(CWQuickStop); werr != nil {
		return werr
	}
	return nil
}

// Disable writes the disable control word and keeps the connection open, so
// the drive can be reconfigured.
func (c *Controller) Disable() error {
	if !c.connected {
		return nil
	}
	if werr := c.command(CWDisable); werr != nil {
		return werr
	}
	return nil
}

// Shutdown disables the drive and releases the connection. Failures are
// logged, never returned. It is safe to call more than once and without a
// prior Configure.
func (c *Controller) Shutdown() {
	c.configured = false
	if !c.connected {
		return
	}

	var errs error
	if werr := c.command(CWDisable); werr != nil {
		errs = multierr.Append(errs, werr)
	}
	c.sleep(c.settle)

	if err := c.link.Close(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("close %s: %w", c.link.Name(), err))
	}
	c.connected = false

	for _, err := range multierr.Errors(errs) {
		c.logger.Warn("shutdown", "err", err)
	}
	c.lifecycle("connection closed", errs)
}

func (c *Controller) connect() error {
	if c.connected {
		return nil
	}
	if err := c.link.Open(); err != nil {
		c.lifecycle("connection failed", err)
		return &ConnectionError{Port: c.link.Name(), Err: err}
	}
	c.connected = true
	c.logger.Info("connection opened")
	c.lifecycle("connection opened", nil)
	return nil
}

// command writes a control word and advances the state machine once the
// amplifier accepted it.
func (c *Controller) command(cw ControlWord) *WriteError {
	if werr := c.write(controlWrite(cw)); werr != nil {
		return werr
	}

	from, err := c.machine.Apply(cw)
	if err != nil {
		// The amplifier accepted a word the local model does not expect.
		c.logger.Warn("unexpected control word", "control_word", cw.String(), "err", err)
		return nil
	}
	to := c.machine.State()

	c.logger.Info("state changed", "from", from.String(), "to", to.String(), "control_word", cw.String())
	c.recorder.Record(journal.Event{
		Timestamp: c.now(),
		Session:   c.session,
		Kind:      journal.KindTransition,
		From:      from.String(),
		To:        to.String(),
		Message:   cw.String(),
	})
	return nil
}

// write issues one register write exactly once.
func (c *Controller) write(w transport.Write) *WriteError {
	err := transport.Apply(c.link, w)

	ev := journal.Event{
		Timestamp: c.now(),
		Session:   c.session,
		Kind:      journal.KindWrite,
		Address:   w.Address,
		Values:    w.Values,
		Multiple:  w.Multiple,
		OK:        err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	c.recorder.Record(ev)

	if err != nil {
		c.logger.Warn("register write failed", "write", w.String(), "err", err)
		return &WriteError{Address: w.Address, Values: w.Values, Err: err}
	}
	return nil
}

func (c *Controller) lifecycle(msg string, err error) {
	ev := journal.Event{
		Timestamp: c.now(),
		Session:   c.session,
		Kind:      journal.KindLifecycle,
		Message:   msg,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	c.recorder.Record(ev)
}
