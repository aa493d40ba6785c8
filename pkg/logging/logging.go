// Package logging configures the process-wide slog logger.
//
// Warnings and errors go to stderr. When the verbosity admits them, info and debug records go
// to stdout so they interleave with the shell's own output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// LevelForVerbosity maps the number of -v flags to a level: 0 WARN, 1 INFO, 2+ DEBUG.
func LevelForVerbosity(verbosity int) slog.Level {
	level := slog.LevelWarn - slog.Level(4*verbosity)
	if level < slog.LevelDebug {
		level = slog.LevelDebug
	}
	return level
}

// Setup installs the default logger for the given verbosity and returns it.
// out and errOut are normally os.Stdout and os.Stderr.
func Setup(out, errOut io.Writer, verbosity int) *slog.Logger {
	logger := New(out, errOut, LevelForVerbosity(verbosity))
	slog.SetDefault(logger)
	return logger
}

// New builds a logger that writes records at or above WARN to errOut and records between
// level and INFO to out.
func New(out, errOut io.Writer, level slog.Level) *slog.Logger {
	h := &splitHandler{
		low:   tint.NewHandler(out, &tint.Options{Level: level, TimeFormat: time.DateTime, NoColor: !isTerminal(out)}),
		high:  tint.NewHandler(errOut, &tint.Options{Level: max(level, slog.LevelWarn), TimeFormat: time.DateTime, NoColor: !isTerminal(errOut)}),
		level: level,
	}
	return slog.New(h)
}

// splitHandler routes records to one of two handlers depending on severity.
type splitHandler struct {
	low   slog.Handler
	high  slog.Handler
	level slog.Level
}

func (h *splitHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		return h.high.Handle(ctx, r)
	}
	return h.low.Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{low: h.low.WithAttrs(attrs), high: h.high.WithAttrs(attrs), level: h.level}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{low: h.low.WithGroup(name), high: h.high.WithGroup(name), level: h.level}
}

// isTerminal reports whether w is a terminal, so colour codes are only sent to a tty.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
