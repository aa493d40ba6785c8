// Package shell implements the interactive prompt: it reads commands, waits for a chip and
// prints what the chip answered.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode"

	"github.com/gregLibert/nfc-shell/pkg/config"
	"github.com/gregLibert/nfc-shell/pkg/dispatch"
	"github.com/gregLibert/nfc-shell/pkg/hexstr"
)

// Name is the application name shown in the banner.
const Name = "NFC Shell"

// Prompt is printed before each command line.
const Prompt = "> "

// Session is a reader connection to a presented chip, owned by one run.
type Session interface {
	dispatch.Session
	Close() error
}

// Acquirer waits for a chip and returns a session bound to it.
// It must return an error matching ErrNoChip when the timeout expires.
type Acquirer interface {
	Acquire(ctx context.Context, timeout time.Duration) (Session, error)
}

// LineReader supplies command lines. Readline returns io.EOF when input is exhausted and
// ErrLineInterrupted when the operator pressed Ctrl+C at the prompt.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// ErrLineInterrupted aborts the line being typed without leaving the shell.
var ErrLineInterrupted = errors.New("shell: line interrupted")

// ErrNoChip is returned by an Acquirer when no chip was presented in time.
var ErrNoChip = errors.New("shell: no chip presented")

// Shell is the interactive command loop.
type Shell struct {
	acquirer    Acquirer
	out         io.Writer
	runTimeout  time.Duration
	loopTimeout time.Duration
	loopDelay   time.Duration

	// interrupts derives the context a loop runs under; cancelling it stops the loop.
	interrupts func(context.Context) (context.Context, context.CancelFunc)
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput sets where command output is written.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

// WithConfig applies the timeouts from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Shell) {
		s.runTimeout = cfg.RunTimeout
		s.loopTimeout = cfg.LoopTimeout
		s.loopDelay = cfg.LoopDelay
	}
}

// WithInterrupts replaces the Ctrl+C source used by "loop".
func WithInterrupts(f func(context.Context) (context.Context, context.CancelFunc)) Option {
	return func(s *Shell) { s.interrupts = f }
}

// New creates a Shell that obtains sessions from acquirer.
func New(acquirer Acquirer, opts ...Option) *Shell {
	s := &Shell{
		acquirer:    acquirer,
		out:         os.Stdout,
		runTimeout:  config.DefaultRunTimeout,
		loopTimeout: config.DefaultLoopTimeout,
		loopDelay:   config.DefaultLoopDelay,
		interrupts: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run prints the banner and executes lines from r until "exit", end of input or ctx is done.
// Only unexpected failures are returned; everything the operator can fix is printed instead.
func (s *Shell) Run(ctx context.Context, r LineReader) error {
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("failed to close line reader", slog.Any("error", err))
		}
	}()

	fmt.Fprintf(s.out, "%s CLI Application\n", Name)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := r.Readline()
		if errors.Is(err, ErrLineInterrupted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		stop, err := s.Exec(ctx, line)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Exec runs one command line. stop is true after "exit".
func (s *Shell) Exec(ctx context.Context, line string) (stop bool, err error) {
	name, args := splitLine(line)

	switch name {
	case "":
		return false, nil
	case "run":
		slog.Debug("entering run", slog.String("args", args))
		return false, s.doRun(ctx, args)
	case "loop":
		slog.Debug("entering loop", slog.String("args", args))
		return false, s.doLoop(ctx, args)
	case "help", "?":
		slog.Debug("entering help")
		s.doHelp()
		return false, nil
	case "exit":
		slog.Debug("entering exit")
		return true, nil
	default:
		fmt.Fprintf(s.out, "*** Unknown syntax: %s\n", strings.TrimSpace(line))
		return false, nil
	}
}

// splitLine separates the command word from its arguments at the first whitespace rune.
func splitLine(line string) (name, args string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func (s *Shell) doHelp() {
	fmt.Fprintln(s.out, `Commands:
  run <hex;hex;...>   wait for a chip and send each command once, stopping at the first failure
  loop <hex;hex;...>  repeat "run" until ctrl+c
  help                show this help
  exit                leave the shell

Each command is a run of hex byte pairs with no spaces, e.g. "3004" reads NTAG page 4.
Commands are tunneled through PN532 InCommunicateThru (D4 42) inside an ACR122 direct transmit (FF 00 00 00 Lc).`)
}

// parse validates a command list before anything waits on the reader.
// An empty list is valid but leaves nothing to do, so ok is false without a message.
func (s *Shell) parse(args string) (cmds []dispatch.Command, ok bool) {
	cmds, err := dispatch.ParseCommandList(args)
	if err == nil {
		err = dispatch.Validate(cmds)
	}
	if err != nil {
		fmt.Fprintf(s.out, "*** Invalid command list: %v\n", err)
		return nil, false
	}
	return cmds, len(cmds) > 0
}

func (s *Shell) doRun(ctx context.Context, args string) error {
	cmds, ok := s.parse(args)
	if !ok {
		return nil
	}
	_, err := s.runOnce(ctx, cmds, s.runTimeout)
	return err
}

func (s *Shell) doLoop(ctx context.Context, args string) error {
	cmds, ok := s.parse(args)
	if !ok {
		return nil
	}

	fmt.Fprintln(s.out, "Press ctrl+c to return to the prompt...")

	loopCtx, stop := s.interrupts(ctx)
	defer stop()

	for count := 1; ; count++ {
		// Cancellation is only honoured between cycles.
		if loopCtx.Err() != nil {
			return nil
		}

		fmt.Fprintf(s.out, "Run #%d:\n", count)
		trace, err := s.runOnce(loopCtx, cmds, s.loopTimeout)
		if err != nil {
			return err
		}
		slog.Info("loop cycle finished",
			slog.Int("run", count),
			slog.Int("results", len(trace)),
			slog.Bool("success", trace != nil && trace.IsSuccess()))

		if !sleep(loopCtx, s.loopDelay) {
			return nil
		}
	}
}

// runOnce acquires a session, dispatches cmds over it and prints every result.
// A nil trace means no chip was reached.
func (s *Shell) runOnce(ctx context.Context, cmds []dispatch.Command, timeout time.Duration) (dispatch.Trace, error) {
	sess, err := s.acquirer.Acquire(ctx, timeout)
	switch {
	case errors.Is(err, ErrNoChip):
		fmt.Fprintln(s.out, "Chip connection timed out.")
		return nil, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("card connection failed unexpectedly: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Warn("failed to close session", slog.Any("error", err))
		}
	}()

	seq, err := dispatch.Execute(cmds, sess)
	if err != nil {
		fmt.Fprintf(s.out, "*** %v\n", err)
		return nil, nil
	}

	trace := dispatch.Trace{}
	for res := range seq {
		trace = append(trace, res)
		s.printResult(res)
	}
	return trace, nil
}

func (s *Shell) printResult(res dispatch.Result) {
	fmt.Fprintf(s.out, "TX: %q...\n", hexstr.Format(res.Frame))

	if !res.OK {
		fmt.Fprintf(s.out, "%q failed.\n", res.Command.String())
		// Transport faults are already logged by the dispatcher.
		if !dispatch.IsTransportFault(res.Err) {
			slog.Info("command rejected", slog.Any("error", res.Err))
		}
		return
	}

	fmt.Fprintln(s.out, "RX: (HEX)")
	fmt.Fprintln(s.out, hexstr.Format(res.Data))
	fmt.Fprintln(s.out, "RX: (ASCII)")
	fmt.Fprintln(s.out, hexstr.SafeASCII(res.Data))
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
