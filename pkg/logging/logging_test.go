package logging

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{5, slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := LevelForVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelForVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestNew_SplitsBySeverity(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(&out, &errOut, slog.LevelDebug)

	logger.Debug("entering run")
	logger.Info("chip connected")
	logger.Warn("slow reader")
	logger.Error("transmit failed")

	for _, msg := range []string{"entering run", "chip connected"} {
		if !strings.Contains(out.String(), msg) {
			t.Errorf("stdout missing %q:\n%s", msg, out.String())
		}
		if strings.Contains(errOut.String(), msg) {
			t.Errorf("stderr should not contain %q", msg)
		}
	}
	for _, msg := range []string{"slow reader", "transmit failed"} {
		if !strings.Contains(errOut.String(), msg) {
			t.Errorf("stderr missing %q:\n%s", msg, errOut.String())
		}
		if strings.Contains(out.String(), msg) {
			t.Errorf("stdout should not contain %q", msg)
		}
	}
}

func TestNew_DefaultLevelIsQuiet(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(&out, &errOut, LevelForVerbosity(0))

	logger.Info("hidden")
	logger.Debug("hidden too")
	logger.Warn("shown", slog.String("reader", "ACR122U"))

	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "shown") || !strings.Contains(errOut.String(), "reader=ACR122U") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestNew_WithAttrs(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(&out, &errOut, slog.LevelInfo).With(slog.String("cmd", "run"))

	logger.Info("start")
	logger.Error("stop")

	if !strings.Contains(out.String(), "cmd=run") || !strings.Contains(errOut.String(), "cmd=run") {
		t.Errorf("attrs not propagated: stdout=%q stderr=%q", out.String(), errOut.String())
	}
}

func TestIsTerminal_NonTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if isTerminal(f) {
		t.Error("regular file reported as terminal")
	}
	if isTerminal(&bytes.Buffer{}) {
		t.Error("buffer reported as terminal")
	}

	var out bytes.Buffer
	New(&out, &out, slog.LevelInfo).Info("plain")
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("colour codes written to a non-terminal: %q", out.String())
	}
}
