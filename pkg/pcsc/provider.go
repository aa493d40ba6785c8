// Package pcsc provides reader sessions over PC/SC: wait for a chip on any attached reader,
// connect to it and transmit raw frames.
package pcsc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ebfe/scard"
)

// ErrTimeout is returned when no chip was presented before the timeout expired.
var ErrTimeout = errors.New("pcsc: no chip presented before timeout")

// DefaultPollInterval bounds each blocking wait on the PC/SC service.
const DefaultPollInterval = 250 * time.Millisecond

// SmartCardContext is the subset of *scard.Context the provider needs.
type SmartCardContext interface {
	ListReaders() ([]string, error)
	GetStatusChange(states []scard.ReaderState, timeout time.Duration) error
	Connect(reader string, mode scard.ShareMode, proto scard.Protocol) (SmartCard, error)
	Release() error
}

// SmartCard is the subset of *scard.Card a Session needs.
type SmartCard interface {
	Transmit(cmd []byte) ([]byte, error)
	Disconnect(d scard.Disposition) error
}

// ContextFactory establishes a PC/SC context.
type ContextFactory func() (SmartCardContext, error)

// scardContext adapts *scard.Context to SmartCardContext.
type scardContext struct {
	*scard.Context
}

func (c scardContext) Connect(reader string, mode scard.ShareMode, proto scard.Protocol) (SmartCard, error) {
	sc, err := c.Context.Connect(reader, mode, proto)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// EstablishContext is the production ContextFactory.
func EstablishContext() (SmartCardContext, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, err
	}
	return scardContext{ctx}, nil
}

// Provider hands out sessions bound to a physically presented chip.
type Provider struct {
	readerFilter string
	pollInterval time.Duration
	newContext   ContextFactory
}

// Option configures a Provider.
type Option func(*Provider)

// WithReaderFilter restricts the provider to readers whose name contains substr.
func WithReaderFilter(substr string) Option {
	return func(p *Provider) { p.readerFilter = substr }
}

// WithPollInterval sets how long a single status wait may block.
func WithPollInterval(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}

// WithContextFactory replaces the PC/SC context constructor.
func WithContextFactory(f ContextFactory) Option {
	return func(p *Provider) { p.newContext = f }
}

// NewProvider creates a Provider using the system PC/SC service.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		pollInterval: DefaultPollInterval,
		newContext:   EstablishContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire waits up to timeout for a chip on any matching reader and connects to it.
// A reader attached while waiting is picked up. It returns ErrTimeout when nothing shows up
// in time and ctx.Err() when ctx is cancelled.
func (p *Provider) Acquire(ctx context.Context, timeout time.Duration) (*Session, error) {
	cc, err := p.newContext()
	if err != nil {
		return nil, fmt.Errorf("pcsc: establish context: %w", err)
	}

	sess, err := p.waitAndConnect(ctx, cc, time.Now().Add(timeout))
	if err != nil {
		if relErr := cc.Release(); relErr != nil {
			slog.Warn("failed to release PC/SC context", slog.Any("error", relErr))
		}
		return nil, err
	}
	return sess, nil
}

func (p *Provider) waitAndConnect(ctx context.Context, cc SmartCardContext, deadline time.Time) (*Session, error) {
	var states []scard.ReaderState

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			slog.Debug("chip wait timed out")
			return nil, ErrTimeout
		}
		wait := min(p.pollInterval, remaining)

		readers, err := p.listReaders(cc)
		if err != nil {
			return nil, err
		}
		if len(readers) == 0 {
			states = nil
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}
		states = syncStates(states, readers)

		err = cc.GetStatusChange(states, wait)
		if err != nil && !errors.Is(err, scard.ErrTimeout) {
			return nil, fmt.Errorf("pcsc: get status change: %w", err)
		}

		for i := range states {
			rs := &states[i]
			present := rs.EventState&scard.StatePresent != 0 && rs.EventState&scard.StateMute == 0
			rs.CurrentState = rs.EventState &^ scard.StateChanged
			if !present {
				continue
			}

			sess, err := connect(cc, rs.Reader)
			if err == nil {
				return sess, nil
			}
			if !isTransient(err) {
				return nil, err
			}
			slog.Debug("chip left before connect", slog.String("reader", rs.Reader), slog.Any("error", err))
		}
	}
}

// listReaders returns the reader names that pass the filter.
// An empty PC/SC reader list is not an error: a reader may still be plugged in.
func (p *Provider) listReaders(cc SmartCardContext) ([]string, error) {
	names, err := cc.ListReaders()
	if errors.Is(err, scard.ErrNoReadersAvailable) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pcsc: list readers: %w", err)
	}

	if p.readerFilter == "" {
		return names, nil
	}
	filtered := names[:0:0]
	for _, name := range names {
		if strings.Contains(name, p.readerFilter) {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}

// syncStates keeps the known state of readers still attached and starts new ones as unaware.
func syncStates(prev []scard.ReaderState, readers []string) []scard.ReaderState {
	known := make(map[string]scard.StateFlag, len(prev))
	for _, rs := range prev {
		known[rs.Reader] = rs.CurrentState
	}

	states := make([]scard.ReaderState, len(readers))
	for i, name := range readers {
		cur, ok := known[name]
		if !ok {
			cur = scard.StateUnaware
		}
		states[i] = scard.ReaderState{Reader: name, CurrentState: cur}
	}
	return states
}

func connect(cc SmartCardContext, reader string) (*Session, error) {
	c, err := cc.Connect(reader, scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		return nil, fmt.Errorf("pcsc: connect %q: %w", reader, err)
	}
	slog.Debug("connected to chip", slog.String("reader", reader))
	return &Session{reader: reader, ctx: cc, card: c}, nil
}

// isTransient reports connect failures caused by the chip moving in or out of the field.
func isTransient(err error) bool {
	return errors.Is(err, scard.ErrNoSmartcard) ||
		errors.Is(err, scard.ErrRemovedCard) ||
		errors.Is(err, scard.ErrUnresponsiveCard)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
