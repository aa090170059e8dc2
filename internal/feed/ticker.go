package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

// DefaultTickerInterval is how often the breaking-news set is refreshed.
const DefaultTickerInterval = 30 * time.Second

// UrgentFetcher returns the complete current breaking-news set.
type UrgentFetcher interface {
	FetchBreaking(ctx context.Context) ([]domain.Article, error)
}

// Poller keeps the ticker's displayed set current. Each successful poll
// replaces the set wholesale; a failed poll keeps the previous one.
// The loop runs until Stop or until the context passed to Start is done.
type Poller struct {
	fetch    UrgentFetcher
	interval time.Duration
	onChange func([]domain.Article)
	logger   zerolog.Logger

	mu      sync.RWMutex
	current []domain.Article

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	stopped   bool
}

// NewPoller creates a poller. onChange, if non-nil, is called with the new
// set after every successful poll.
func NewPoller(fetch UrgentFetcher, interval time.Duration, onChange func([]domain.Article), logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultTickerInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		onChange: onChange,
		logger:   logger,
	}
}

// Start polls once immediately and then on every interval, in a goroutine
// owned by the poller. Start after Stop, or a second Start, does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()
	if p.stopped || p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.Tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Tick(ctx)
			}
		}
	}()
}

// Tick performs one poll. A poll never outlives one interval so a hung
// request cannot hold back the next tick.
func (p *Poller) Tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	items, err := p.fetch.FetchBreaking(ctx)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Ticker poll failed, keeping previous set")
		return
	}

	set := make([]domain.Article, len(items))
	copy(set, items)

	p.mu.Lock()
	p.current = set
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(p.Current())
	}
}

// Current returns a copy of the displayed set.
func (p *Poller) Current() []domain.Article {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Article, len(p.current))
	copy(out, p.current)
	return out
}

// Stop cancels the polling loop and waits for it to exit. Safe to call
// more than once and before Start; a stopped poller never starts again.
func (p *Poller) Stop() {
	p.lifecycle.Lock()
	p.stopped = true
	cancel, done := p.cancel, p.done
	p.lifecycle.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
