// Package feed holds the reader-side pagination machinery: a cursor that
// accumulates pages of articles, a trigger that advances it when the last
// item scrolls into view, and a poller that keeps the breaking-news ticker
// current.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

// ErrTransientFetch marks network or server failures on page and ticker
// fetches. Callers retry by triggering again.
var ErrTransientFetch = errors.New("transient fetch failure")

// ErrStalePage is returned by Advance when the page arrived for a request
// that a Reset has since superseded. The page was discarded.
var ErrStalePage = errors.New("stale page discarded")

// PageProvider performs the actual page fetch.
type PageProvider interface {
	FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.Article, error)
}

// Ticket identifies one issued page request. Complete only merges a page
// whose ticket is still the outstanding one.
type Ticket struct {
	Request    domain.PageRequest
	generation uint64
}

// State is a snapshot of the cursor.
type State struct {
	Items      []domain.Article
	NextOffset int
	HasMore    bool
	InFlight   bool
}

// Cursor is the feed state machine. At most one page request is
// outstanding at a time and offsets are requested in increasing order.
// It is safe for concurrent use.
type Cursor struct {
	provider PageProvider
	limit    int

	mu         sync.Mutex
	category   *int64
	items      []domain.Article
	seen       map[int64]struct{}
	nextOffset int
	hasMore    bool
	inFlight   bool
	generation uint64
}

// NewCursor creates a cursor fetching limit items per page.
func NewCursor(provider PageProvider, limit int, category *int64) *Cursor {
	if limit < 1 {
		limit = 1
	}
	return &Cursor{
		provider: provider,
		limit:    limit,
		category: category,
		seen:     make(map[int64]struct{}),
		hasMore:  true,
	}
}

// Limit returns the fixed page size.
func (c *Cursor) Limit() int { return c.limit }

// Begin issues the next page request. It reports false when a request is
// already outstanding or the feed is exhausted.
func (c *Cursor) Begin() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight || !c.hasMore {
		return Ticket{}, false
	}
	c.inFlight = true
	return c.ticketLocked(), true
}

// Reset starts over from offset 0, optionally switching category. Any
// outstanding request is superseded and its page will be discarded. The
// items already shown stay until the new first page replaces them.
func (c *Cursor) Reset(category *int64) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.category = category
	c.nextOffset = 0
	c.hasMore = true
	c.inFlight = true
	return c.ticketLocked()
}

func (c *Cursor) ticketLocked() Ticket {
	return Ticket{
		Request: domain.PageRequest{
			Limit:      c.limit,
			Offset:     c.nextOffset,
			CategoryID: c.category,
		},
		generation: c.generation,
	}
}

// Complete applies the outcome of the request identified by t and reports
// whether t was still current. A stale ticket changes nothing.
//
// On failure only the in-flight flag is cleared. On success a page for
// offset 0 replaces the items, any other page is appended without
// duplicates, and a page shorter than the limit ends the feed.
func (c *Cursor) Complete(t Ticket, page []domain.Article, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inFlight || t.generation != c.generation || t.Request.Offset != c.nextOffset {
		return false
	}
	c.inFlight = false
	if err != nil {
		return true
	}

	if t.Request.Offset == 0 {
		c.items = nil
		c.seen = make(map[int64]struct{}, len(page))
	}
	for _, a := range page {
		if _, dup := c.seen[a.ID]; dup {
			continue
		}
		c.seen[a.ID] = struct{}{}
		c.items = append(c.items, a)
	}

	c.nextOffset += t.Request.Limit
	if len(page) < t.Request.Limit {
		c.hasMore = false
	}
	return true
}

// Advance fetches and merges the next page. It returns false with a nil
// error when there was nothing to do.
func (c *Cursor) Advance(ctx context.Context) (bool, error) {
	t, ok := c.Begin()
	if !ok {
		return false, nil
	}
	return c.run(ctx, t)
}

// Refresh reloads from the top, switching to category.
func (c *Cursor) Refresh(ctx context.Context, category *int64) error {
	_, err := c.run(ctx, c.Reset(category))
	return err
}

// Fetch performs the provider call for t without touching cursor state.
// Hosts that must not block (an event loop) call Begin, Fetch elsewhere,
// then Complete.
func (c *Cursor) Fetch(ctx context.Context, t Ticket) ([]domain.Article, error) {
	page, err := c.provider.FetchPage(ctx, t.Request)
	if err != nil && !errors.Is(err, ErrTransientFetch) {
		err = fmt.Errorf("%w: %w", ErrTransientFetch, err)
	}
	return page, err
}

func (c *Cursor) run(ctx context.Context, t Ticket) (bool, error) {
	page, err := c.Fetch(ctx, t)
	if !c.Complete(t, page, err) {
		return false, ErrStalePage
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CanAdvance reports whether Begin would issue a request right now.
func (c *Cursor) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.inFlight && c.hasMore
}

// Exhausted reports whether the feed has ended.
func (c *Cursor) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.hasMore
}

// Sentinel returns the id of the last item, the one whose visibility
// advances the feed.
func (c *Cursor) Sentinel() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return 0, false
	}
	return c.items[len(c.items)-1].ID, true
}

// State returns a copy of the current state.
func (c *Cursor) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.Article, len(c.items))
	copy(items, c.items)
	return State{
		Items:      items,
		NextOffset: c.nextOffset,
		HasMore:    c.hasMore,
		InFlight:   c.inFlight,
	}
}
