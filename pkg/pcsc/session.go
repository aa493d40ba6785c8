package pcsc

import (
	"errors"
	"fmt"

	"github.com/ebfe/scard"
	"github.com/gregLibert/nfc-shell/pkg/iso7816"
)

// Session is a connection to one presented chip. It is not safe for concurrent use.
type Session struct {
	reader string
	ctx    SmartCardContext
	card   SmartCard
}

// Reader returns the name of the reader the chip was presented to.
func (s *Session) Reader() string {
	return s.reader
}

// Transmit sends a raw frame and splits the reply into data and status word.
func (s *Session) Transmit(frame []byte) (*iso7816.ResponseAPDU, error) {
	raw, err := s.card.Transmit(frame)
	if err != nil {
		return nil, fmt.Errorf("pcsc: transmit: %w", err)
	}
	return iso7816.ParseResponseAPDU(raw)
}

// Close disconnects from the chip and releases the PC/SC context.
func (s *Session) Close() error {
	var errs []error
	if err := s.card.Disconnect(scard.LeaveCard); err != nil {
		errs = append(errs, fmt.Errorf("pcsc: disconnect: %w", err))
	}
	if err := s.ctx.Release(); err != nil {
		errs = append(errs, fmt.Errorf("pcsc: release context: %w", err))
	}
	return errors.Join(errs...)
}
