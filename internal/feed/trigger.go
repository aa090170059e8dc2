package feed

import "sync"

// Viewport is the host capability of telling whether the sentinel item is
// on screen. A terminal list, a browser intersection observer or a polled
// scroll offset can all back it.
type Viewport interface {
	SentinelVisible() bool
}

// Advancer is the part of Cursor the trigger needs.
type Advancer interface {
	CanAdvance() bool
	Exhausted() bool
	Sentinel() (int64, bool)
}

// Trigger turns sentinel visibility into advance signals. It signals once
// per hidden-to-visible transition of a given sentinel and re-arms when the
// sentinel changes after a merge. Once the feed is exhausted it never
// signals again.
type Trigger struct {
	cursor Advancer

	mu        sync.Mutex
	sentinel  int64
	hasTarget bool
	signalled bool
}

// NewTrigger creates a trigger observing the cursor's last item.
func NewTrigger(cursor Advancer) *Trigger {
	return &Trigger{cursor: cursor}
}

// Check samples vp and reports whether the caller should advance the cursor now.
func (t *Trigger) Check(vp Viewport) bool {
	return t.Observe(vp.SentinelVisible())
}

// Observe records the current visibility of the sentinel and reports
// whether the caller should advance the cursor now.
func (t *Trigger) Observe(visible bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor.Exhausted() {
		return false
	}

	key, ok := t.cursor.Sentinel()
	if !ok {
		// Nothing rendered yet; the initial load is issued by the host.
		t.hasTarget = false
		return false
	}
	if !t.hasTarget || key != t.sentinel {
		t.sentinel = key
		t.hasTarget = true
		t.signalled = false
	}

	if !visible {
		t.signalled = false
		return false
	}
	if t.signalled || !t.cursor.CanAdvance() {
		return false
	}

	t.signalled = true
	return true
}

// Armed reports whether a future visibility event could still signal.
func (t *Trigger) Armed() bool {
	return !t.cursor.Exhausted()
}
