// Package log builds the configured slog.Logger for hidmux and provides the
// raw report logger used to trace every HID buffer handed to the transport.
//
// Without a log file, records below Error go to stdout and Error and above
// to stderr, so stderr redirection captures failures without losing the
// normal stream.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace is a custom slog level below Debug for very verbose output,
// e.g. per-report transmission traces.
const LevelTrace slog.Level = -8

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitHandler routes records to one of two handlers depending on whether
// the record level is at or above the split level.
type splitHandler struct {
	split slog.Level
	below slog.Handler
	above slog.Handler
}

func (s splitHandler) pick(level slog.Level) slog.Handler {
	if level >= s.split {
		return s.above
	}
	return s.below
}

func (s splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.pick(level).Enabled(ctx, level)
}

func (s splitHandler) Handle(ctx context.Context, r slog.Record) error {
	return s.pick(r.Level).Handle(ctx, r)
}

func (s splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return splitHandler{split: s.split, below: s.below.WithAttrs(attrs), above: s.above.WithAttrs(attrs)}
}

func (s splitHandler) WithGroup(name string) slog.Handler {
	return splitHandler{split: s.split, below: s.below.WithGroup(name), above: s.above.WithGroup(name)}
}

// teeHandler duplicates records to both handlers.
type teeHandler struct {
	a, b slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.a.Enabled(ctx, level) || t.b.Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	_ = t.a.Handle(ctx, r)
	return t.b.Handle(ctx, r)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{a: t.a.WithAttrs(attrs), b: t.b.WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{a: t.a.WithGroup(name), b: t.b.WithGroup(name)}
}

// Setup builds a slog.Logger for the given level name, optionally teeing all
// records into logFile. The returned closers must be closed on shutdown.
func Setup(levelName, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(levelName)

	var h slog.Handler = splitHandler{
		split: slog.LevelError,
		below: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		above: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	var closers []io.Closer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		h = teeHandler{a: h, b: slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})}
	}

	return slog.New(h), closers, nil
}
