package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregLibert/nfc-shell/pkg/pcsc"
)

// pcscAcquirer adapts a pcsc.Provider to Acquirer.
type pcscAcquirer struct {
	provider *pcsc.Provider
}

// FromPCSC returns an Acquirer backed by the PC/SC provider p.
func FromPCSC(p *pcsc.Provider) Acquirer {
	return pcscAcquirer{provider: p}
}

func (a pcscAcquirer) Acquire(ctx context.Context, timeout time.Duration) (Session, error) {
	sess, err := a.provider.Acquire(ctx, timeout)
	if errors.Is(err, pcsc.ErrTimeout) {
		return nil, fmt.Errorf("%w after %v: %w", ErrNoChip, timeout, err)
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
