package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/ixv/internal/core/config"
	"github.com/colonyops/ixv/internal/core/host"
)

// HostChannel is the wiring of the host message channel for one run.
type HostChannel struct {
	Notifier host.Notifier
	Exporter host.Exporter
	// Buffer holds exports when no host is attached, to be printed once
	// the inspector exits. nil in file mode.
	Buffer *host.Buffer
	// Inbox delivers inbound messages. nil when none is configured.
	Inbox *host.Inbox

	closers []func() error
}

// OpenHost sets up the channel for the configured host mode.
func OpenHost(cfg config.HostConfig) (*HostChannel, error) {
	switch cfg.Mode {
	case config.HostNone, "":
		buf := &host.Buffer{}
		return &HostChannel{Notifier: buf, Exporter: buf, Buffer: buf}, nil
	case config.HostFile:
	default:
		return nil, fmt.Errorf("unsupported host mode %q", cfg.Mode)
	}

	ch := &HostChannel{}

	if err := os.MkdirAll(filepath.Dir(cfg.Out), 0o755); err != nil {
		return nil, fmt.Errorf("create host out dir: %w", err)
	}
	out, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open host out: %w", err)
	}
	ch.closers = append(ch.closers, out.Close)

	stream := host.NewStream(out)
	ch.Notifier = stream
	ch.Exporter = stream

	if cfg.In != "" {
		inbox, err := host.OpenInbox(cfg.In)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("open host inbox: %w", err)
		}
		ch.Inbox = inbox
		ch.closers = append(ch.closers, inbox.Close)
	}

	return ch, nil
}

// Messages returns the inbound message channel, or nil without an inbox.
func (h *HostChannel) Messages() <-chan []byte {
	if h.Inbox == nil {
		return nil
	}
	return h.Inbox.Messages()
}

// Close releases the inbox and the outbound file, newest first.
func (h *HostChannel) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	h.closers = nil
	return errors.Join(errs...)
}
