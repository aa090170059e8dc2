package v1

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/middleware"
)

// DefaultPurgeInterval is used when a non-positive interval is given.
const DefaultPurgeInterval = time.Hour

// SessionPurger periodically deletes expired session records. Expiry is
// still enforced at read time; purging only reclaims storage.
type SessionPurger struct {
	sessions domain.SessionRepository
	interval time.Duration
	now      func() time.Time

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	stopped   bool
}

// NewSessionPurger creates a purger. Call Start to run it and Stop to tear it down.
func NewSessionPurger(sessions domain.SessionRepository, interval time.Duration) *SessionPurger {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &SessionPurger{sessions: sessions, interval: interval, now: time.Now}
}

// Start launches the purge loop. Start after Stop, or a second Start, does nothing.
func (p *SessionPurger) Start(ctx context.Context) {
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

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.PurgeOnce(ctx)
			}
		}
	}()
}

// PurgeOnce runs a single purge pass and returns the number of records removed.
func (p *SessionPurger) PurgeOnce(ctx context.Context) int64 {
	n, err := p.sessions.DeleteExpired(ctx, p.now())
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Session purge failed")
		return 0
	}
	if n > 0 {
		middleware.SessionsPurged.Add(float64(n))
		log.Info().Int64("purged", n).Msg("Expired sessions purged")
	}
	return n
}

// Stop cancels the loop and waits for it to exit. Safe to call more than
// once and before Start.
func (p *SessionPurger) Stop() {
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
