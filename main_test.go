package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gregLibert/nfc-shell/pkg/config"
	"github.com/gregLibert/nfc-shell/pkg/shell"
)

// brokenAcquirer fails the way a missing PC/SC daemon does.
type brokenAcquirer struct{ err error }

func (b brokenAcquirer) Acquire(context.Context, time.Duration) (shell.Session, error) {
	return nil, b.err
}

// script is a LineReader over fixed lines.
type script []string

func (s *script) Readline() (string, error) {
	if len(*s) == 0 {
		return "", io.EOF
	}
	line := (*s)[0]
	*s = (*s)[1:]
	return line, nil
}

func (s *script) Close() error { return nil }

func newTestApp(acq shell.Acquirer, lines ...string) (*app, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	in := script(lines)
	return &app{
		stdout:     &stdout,
		stderr:     &stderr,
		acquirer:   func(*config.Config) shell.Acquirer { return acq },
		lineReader: func() (shell.LineReader, error) { return &in, nil },
	}, &stdout, &stderr
}

func restoreLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestRun_FatalError(t *testing.T) {
	restoreLogger(t)
	a, stdout, stderr := newTestApp(brokenAcquirer{errors.New("pcscd not running")}, "run 3004", "exit")

	if code := a.run(nil); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "A fatal error occurred while running the NFC Shell application") ||
		!strings.Contains(stderr.String(), "pcscd not running") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.HasSuffix(stdout.String(), "Exiting NFC Shell\n") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_CleanExit(t *testing.T) {
	restoreLogger(t)
	a, stdout, stderr := newTestApp(brokenAcquirer{errors.New("unused")}, "help", "exit")

	if code := a.run(nil); code != 0 {
		t.Errorf("run() = %d, want 0", code)
	}
	if !strings.HasPrefix(stdout.String(), "NFC Shell CLI Application\n") ||
		!strings.HasSuffix(stdout.String(), "Exiting NFC Shell\n") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestRun_TerminalUnavailable(t *testing.T) {
	restoreLogger(t)
	a, _, stderr := newTestApp(brokenAcquirer{})
	a.lineReader = func() (shell.LineReader, error) { return nil, errors.New("no tty") }

	if code := a.run(nil); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "failed to open terminal") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"Help", []string{"--help"}, 0},
		{"Unknown Flag", []string{"--bogus"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, stdout, _ := newTestApp(brokenAcquirer{})
			if code := a.run(tt.args); code != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.want)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
		})
	}
}
