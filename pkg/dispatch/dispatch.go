// Package dispatch runs a list of NFC commands against a reader session, one at a time,
// stopping at the first command that fails.
//
// Each command goes through two envelopes before it reaches the reader:
//
//  1. PN532 InCommunicateThru:   D4 42 <command>
//  2. ACR122 Direct Transmit:    FF 00 00 00 <Lc> D4 42 <command>
//
// The reply is only trusted when the reader answers SW1 = 0x90 and the PN532 echo is D5 43 00.
// Transport faults and rejected commands both end the run; Result.Err tells them apart.
package dispatch

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/gregLibert/nfc-shell/pkg/acr122"
	"github.com/gregLibert/nfc-shell/pkg/hexstr"
	"github.com/gregLibert/nfc-shell/pkg/iso7816"
	"github.com/gregLibert/nfc-shell/pkg/pn532"
)

// Session abstracts a reader connection bound to a presented chip.
// Transmit is synchronous; a Session must not be used by two runs at once.
type Session interface {
	Transmit(frame []byte) (*iso7816.ResponseAPDU, error)
}

// Execute frames every command, then returns a sequence that transmits them in order and
// yields each Result as soon as its reply is in.
//
// Nothing is transmitted when session is nil (ErrNoSession) or when a command does not fit in
// a Direct Transmit frame (acr122.ErrPayloadTooLarge). The sequence stops after the first
// result that is not OK. Ranging over it again starts over from the first command.
func Execute(cmds []Command, session Session) (iter.Seq[Result], error) {
	if session == nil {
		return nil, ErrNoSession
	}

	frames, err := frameAll(cmds)
	if err != nil {
		return nil, err
	}

	return func(yield func(Result) bool) {
		for i, cmd := range cmds {
			res := exchange(session, cmd, frames[i])
			if !yield(res) || !res.OK {
				return
			}
		}
	}, nil
}

// Validate checks that every command fits in a Direct Transmit frame.
func Validate(cmds []Command) error {
	_, err := frameAll(cmds)
	return err
}

func frameAll(cmds []Command) ([][]byte, error) {
	frames := make([][]byte, len(cmds))
	for i, cmd := range cmds {
		frame, err := acr122.Frame(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		frames[i] = frame
	}
	return frames, nil
}

// Run executes cmds and collects the results.
func Run(cmds []Command, session Session) (Trace, error) {
	seq, err := Execute(cmds, session)
	if err != nil {
		return nil, err
	}

	var trace Trace
	for res := range seq {
		trace = append(trace, res)
	}
	return trace, nil
}

// exchange performs a single command-response round trip.
func exchange(session Session, cmd Command, frame []byte) Result {
	res := Result{Command: cmd, Frame: frame}

	slog.Debug("transmitting frame", slog.String("frame", hexstr.Format(frame)))

	resp, err := session.Transmit(frame)
	if err != nil {
		slog.Error("transmit failed",
			slog.String("command", cmd.String()),
			slog.String("frame", hexstr.Format(frame)),
			slog.Any("error", err))
		res.Err = &TransportError{Frame: frame, Err: err}
		res.Data = []byte{}
		return res
	}

	res.Response = resp
	slog.Debug("received response",
		slog.Any("response", resp),
		slog.String("data", hexstr.Format(resp.Data)),
		slog.String("status", resp.Status.String()))

	res.Data, res.OK = pn532.UnwrapResponse(resp.Data, resp.Status.SW1(), resp.Status.SW2())
	if !res.OK {
		res.Err = nackError(resp)
	}
	return res
}

// nackError describes why a reply was not accepted.
func nackError(resp *iso7816.ResponseAPDU) error {
	switch st := resp.Status; {
	case st.IsWarning():
		return fmt.Errorf("%w: reader warning %s", ErrNack, st.Verbose())
	case st.IsError():
		return fmt.Errorf("%w: reader error %s", ErrNack, st.Verbose())
	case st.IsSuccess() && st.SW1() != 0x90:
		// 61XX: the reply was split and the PN532 echo never arrived.
		return fmt.Errorf("%w: reader held back the reply: %s", ErrNack, st.Verbose())
	case st.SW1() != 0x90:
		return fmt.Errorf("%w: reader status %s", ErrNack, st.Verbose())
	}
	if status, ok := pn532.TunnelStatus(resp.Data); ok {
		return fmt.Errorf("%w: PN532 status %02X", ErrNack, status)
	}
	return fmt.Errorf("%w: unexpected PN532 reply %q", ErrNack, hexstr.Format(resp.Data))
}

// IsTransportFault reports whether err comes from the reader I/O rather than the chip.
func IsTransportFault(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
