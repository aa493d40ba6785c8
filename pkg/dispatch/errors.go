package dispatch

import (
	"errors"
	"fmt"

	"github.com/gregLibert/nfc-shell/pkg/hexstr"
)

var (
	// ErrNoSession is returned when no chip was connected to run the commands against.
	ErrNoSession = errors.New("dispatch: no session")

	// ErrNack marks a command the reader or the PN532 rejected.
	ErrNack = errors.New("dispatch: command rejected")
)

// ParseError reports a malformed command in a command list.
type ParseError struct {
	Position int // 1-based
	Text     string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dispatch: command %d %q: %v", e.Position, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TransportError wraps an I/O failure while talking to the reader.
type TransportError struct {
	Frame []byte
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dispatch: transmit %s: %v", hexstr.Format(e.Frame), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
