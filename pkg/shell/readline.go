package shell

import (
	"errors"

	"github.com/chzyer/readline"
)

// historyLimit caps the in-memory history; nothing is written to disk.
const historyLimit = 200

// terminal adapts a readline instance to LineReader.
type terminal struct {
	rl *readline.Instance
}

// NewTerminal opens an interactive line editor on the process terminal.
func NewTerminal() (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryLimit:    historyLimit,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("run"),
			readline.PcItem("loop"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return nil, err
	}
	return &terminal{rl: rl}, nil
}

func (t *terminal) Readline() (string, error) {
	line, err := t.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrLineInterrupted
	}
	return line, err
}

func (t *terminal) Close() error {
	return t.rl.Close()
}
