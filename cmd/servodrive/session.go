package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gwillem/servodrive/pkg/config"
	"github.com/gwillem/servodrive/pkg/drive"
	"github.com/gwillem/servodrive/pkg/journal"
	"github.com/gwillem/servodrive/pkg/transport"
)

// session wires one controller to its transport, logger and journal.
type session struct {
	cfg     *config.Config
	ctrl    *drive.Controller
	logger  *slog.Logger
	closers []func() error
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Journal != "" {
		cfg.Journal = opts.Journal
	}
	if err := cfg.Validate(opts.Simulate); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession builds a controller. Logs go to logOut; extra recorders
// receive journal events alongside the file journal.
func openSession(logOut io.Writer, extra ...journal.Recorder) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	var link transport.Transport
	if opts.Simulate {
		link = transport.NewSimulator(cfg.Port)
	} else {
		link = transport.NewRTU(transport.DefaultSerialConfig(cfg.Port), logger)
	}

	s := &session{cfg: cfg, logger: logger}

	recorders := journal.Multi{journal.NewSlogRecorder(logger)}
	recorders = append(recorders, extra...)
	if cfg.Journal != "" {
		fr, err := journal.NewFileRecorder(cfg.Journal)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		recorders = append(recorders, fr)
		s.closers = append(s.closers, fr.Close)
	}

	s.ctrl = drive.NewController(link,
		drive.WithSettleDelay(cfg.SettleDelay),
		drive.WithLogger(logger),
		drive.WithRecorder(recorders),
	)
	logger.Debug("session ready", "link", link.Name(), "simulate", opts.Simulate, "settle_delay", cfg.SettleDelay)
	return s, nil
}

// Close shuts the drive down and closes the journal.
func (s *session) Close() {
	s.ctrl.Shutdown()
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("close journal", "err", err)
		}
	}
}
