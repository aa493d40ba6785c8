package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/gregLibert/nfc-shell/pkg/config"
	"github.com/gregLibert/nfc-shell/pkg/logging"
	"github.com/gregLibert/nfc-shell/pkg/pcsc"
	"github.com/gregLibert/nfc-shell/pkg/shell"
)

// app holds the pieces of run that touch the host: the reader stack, the terminal and the
// standard streams.
type app struct {
	stdout, stderr io.Writer
	acquirer       func(cfg *config.Config) shell.Acquirer
	lineReader     func() (shell.LineReader, error)
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		acquirer: func(cfg *config.Config) shell.Acquirer {
			return shell.FromPCSC(pcsc.NewProvider(pcsc.WithReaderFilter(cfg.Reader)))
		},
		lineReader: shell.NewTerminal,
	}
}

func main() {
	os.Exit(newApp().run(os.Args[1:]))
}

// run wires the configuration, the PC/SC provider and the prompt together.
// It returns the process exit code.
func (a *app) run(args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	logging.Setup(a.stdout, a.stderr, cfg.Verbosity)
	slog.Debug("program arguments",
		slog.Int("verbosity", cfg.Verbosity),
		slog.String("reader", cfg.Reader),
		slog.Duration("run_timeout", cfg.RunTimeout),
		slog.Duration("loop_timeout", cfg.LoopTimeout),
		slog.Duration("loop_delay", cfg.LoopDelay))
	defer fmt.Fprintf(a.stdout, "Exiting %s\n", shell.Name)

	sh := shell.New(a.acquirer(cfg), shell.WithConfig(cfg), shell.WithOutput(a.stdout))

	term, err := a.lineReader()
	if err != nil {
		slog.Error("failed to open terminal", slog.Any("error", err))
		return 1
	}

	if err := sh.Run(context.Background(), term); err != nil {
		slog.Error(fmt.Sprintf("A fatal error occurred while running the %s application", shell.Name),
			slog.Any("error", err))
		return 1
	}
	return 0
}
