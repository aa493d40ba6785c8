package dispatch

import (
	"errors"
	"strings"

	"github.com/gregLibert/nfc-shell/pkg/hexstr"
)

// Separator splits the commands of a command list.
const Separator = ";"

var errEmptyCommand = errors.New("empty command")

// Command is one NFC command to tunnel through the reader.
type Command []byte

// String returns the command in the console hex format.
func (c Command) String() string {
	return hexstr.Format(c)
}

// ParseCommandList parses "hex;hex;..." into commands.
// The empty string is an empty list. Empty elements and any non-hex character are errors.
func ParseCommandList(s string) ([]Command, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, Separator)
	cmds := make([]Command, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, &ParseError{Position: i + 1, Text: part, Err: errEmptyCommand}
		}
		data, err := hexstr.Decode(part)
		if err != nil {
			return nil, &ParseError{Position: i + 1, Text: part, Err: err}
		}
		cmds = append(cmds, Command(data))
	}
	return cmds, nil
}
