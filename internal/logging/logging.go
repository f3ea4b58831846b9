// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the run logger: Info and above go to the console,
// Warn and above also go to an error log.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// TimeFormat is the timestamp layout used by both sinks.
const TimeFormat = "2006-01-02 15:04:05"

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(TimeFormat))
			}
			return a
		},
	})
}

// New returns a logger writing Info+ records to console and Warn+ records
// to errLog. Either writer may be nil to disable that sink.
func New(console, errLog io.Writer) *slog.Logger {
	var handlers fanout
	if console != nil {
		handlers = append(handlers, newTextHandler(console, slog.LevelInfo))
	}
	if errLog != nil {
		handlers = append(handlers, newTextHandler(errLog, slog.LevelWarn))
	}
	return slog.New(handlers)
}

// Open creates (or truncates) the error log at path and returns a logger
// over it and console. The returned closer closes the error log.
func Open(path string, console io.Writer) (*slog.Logger, io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening error log %s: %w", path, err)
	}
	return New(console, f), f, nil
}

// fanout dispatches each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
