package config

import (
	"os"
	"time"

	"github.com/spf13/pflag"
)

const (
	DefaultRunTimeout  = 15 * time.Second
	DefaultLoopTimeout = 10 * time.Second
	DefaultLoopDelay   = 2 * time.Second
)

// Config holds the application configuration.
type Config struct {
	// RunTimeout bounds the wait for a chip before a single run.
	RunTimeout time.Duration
	// LoopTimeout bounds the wait for a chip before each loop cycle.
	LoopTimeout time.Duration
	// LoopDelay is the pause between two loop cycles.
	LoopDelay time.Duration
	// Reader, when set, restricts the shell to readers whose name contains it.
	Reader string
	// Verbosity is the number of -v flags.
	Verbosity int
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		RunTimeout:  DefaultRunTimeout,
		LoopTimeout: DefaultLoopTimeout,
		LoopDelay:   DefaultLoopDelay,
	}
}

// Load reads configuration from environment variables on top of the defaults,
// then applies command-line flags from args.
func Load(args []string) (*Config, error) {
	cfg := Default()
	cfg.applyEnv(os.Getenv)

	fs := pflag.NewFlagSet("nfc-shell", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegisterFlags binds the command-line flags to cfg.
// -v may be repeated or combined (-vv) to raise the log level.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.CountVarP(&c.Verbosity, "verbose", "v", "verbose log output (repeat for more)")
	fs.StringVarP(&c.Reader, "reader", "r", c.Reader, "only use readers whose name contains this text")
}

func (c *Config) applyEnv(getenv func(string) string) {
	// NFC_SHELL_RUN_TIMEOUT - how long "run" waits for a chip
	if d, ok := parseDuration(getenv("NFC_SHELL_RUN_TIMEOUT")); ok {
		c.RunTimeout = d
	}

	// NFC_SHELL_LOOP_TIMEOUT - how long each "loop" cycle waits for a chip
	if d, ok := parseDuration(getenv("NFC_SHELL_LOOP_TIMEOUT")); ok {
		c.LoopTimeout = d
	}

	// NFC_SHELL_LOOP_DELAY - pause between "loop" cycles (zero allowed)
	if s := getenv("NFC_SHELL_LOOP_DELAY"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= 0 {
			c.LoopDelay = d
		}
	}

	// NFC_SHELL_READER - reader name filter
	if r := getenv("NFC_SHELL_READER"); r != "" {
		c.Reader = r
	}
}

// parseDuration accepts strictly positive Go durations.
func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
