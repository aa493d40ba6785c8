package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ebfe/scard"
	"github.com/gregLibert/nfc-shell/pkg/pcsc"
)

// noReaders is a PC/SC service with nothing plugged in.
type noReaders struct{ released bool }

func (n *noReaders) ListReaders() ([]string, error) { return nil, scard.ErrNoReadersAvailable }
func (n *noReaders) GetStatusChange([]scard.ReaderState, time.Duration) error {
	return errors.New("unexpected status wait")
}
func (n *noReaders) Connect(string, scard.ShareMode, scard.Protocol) (pcsc.SmartCard, error) {
	return nil, errors.New("unexpected connect")
}
func (n *noReaders) Release() error { n.released = true; return nil }

func TestFromPCSC_TimeoutIsNoChip(t *testing.T) {
	svc := &noReaders{}
	p := pcsc.NewProvider(
		pcsc.WithPollInterval(time.Millisecond),
		pcsc.WithContextFactory(func() (pcsc.SmartCardContext, error) { return svc, nil }),
	)

	sess, err := FromPCSC(p).Acquire(context.Background(), 5*time.Millisecond)
	if sess != nil {
		t.Error("expected no session")
	}
	if !errors.Is(err, ErrNoChip) || !errors.Is(err, pcsc.ErrTimeout) {
		t.Errorf("Acquire() error = %v, want ErrNoChip wrapping pcsc.ErrTimeout", err)
	}
	if !svc.released {
		t.Error("PC/SC context was not released")
	}
}

func TestFromPCSC_OtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("pcscd not running")
	p := pcsc.NewProvider(pcsc.WithContextFactory(func() (pcsc.SmartCardContext, error) { return nil, boom }))

	_, err := FromPCSC(p).Acquire(context.Background(), time.Second)
	if !errors.Is(err, boom) || errors.Is(err, ErrNoChip) {
		t.Errorf("Acquire() error = %v", err)
	}
}
