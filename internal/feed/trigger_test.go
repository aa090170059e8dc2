package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedViewport bool

func (v fixedViewport) SentinelVisible() bool { return bool(v) }

func TestTrigger_NoSignalBeforeFirstPage(t *testing.T) {
	c := NewCursor(&pagedSource{total: 30}, 10, nil)
	tr := NewTrigger(c)
	assert.False(t, tr.Observe(true))
}

func TestTrigger_OneSignalPerVisibilityTransition(t *testing.T) {
	ctx := context.Background()
	src := &pagedSource{total: 100}
	c := NewCursor(src, 10, nil)
	_, err := c.Advance(ctx)
	require.NoError(t, err)

	tr := NewTrigger(c)
	assert.False(t, tr.Check(fixedViewport(false)))
	assert.True(t, tr.Check(fixedViewport(true)))

	// Sentinel stays visible: no storm.
	for i := 0; i < 5; i++ {
		assert.False(t, tr.Check(fixedViewport(true)))
	}

	// Scrolling away and back re-signals for the same sentinel.
	assert.False(t, tr.Observe(false))
	assert.True(t, tr.Observe(true))
}

func TestTrigger_RearmsOnNewSentinel(t *testing.T) {
	ctx := context.Background()
	c := NewCursor(&pagedSource{total: 100}, 10, nil)
	_, err := c.Advance(ctx)
	require.NoError(t, err)

	tr := NewTrigger(c)
	require.True(t, tr.Observe(true))
	_, err = c.Advance(ctx)
	require.NoError(t, err)

	// New last item, still visible (short list on a tall screen).
	assert.True(t, tr.Observe(true))
}

func TestTrigger_SuppressedWhileInFlight(t *testing.T) {
	ctx := context.Background()
	c := NewCursor(&pagedSource{total: 100}, 10, nil)
	_, err := c.Advance(ctx)
	require.NoError(t, err)

	tr := NewTrigger(c)
	ticket, ok := c.Begin()
	require.True(t, ok)

	assert.False(t, tr.Observe(true))

	// Failure clears in-flight; the next observation may retry.
	require.True(t, c.Complete(ticket, nil, ErrTransientFetch))
	assert.True(t, tr.Observe(true))
}

func TestTrigger_DisarmedWhenExhausted(t *testing.T) {
	ctx := context.Background()
	src := &pagedSource{total: 24}
	c := NewCursor(src, 10, nil)
	tr := NewTrigger(c)

	for tr.Armed() {
		_, err := c.Advance(ctx)
		require.NoError(t, err)
		tr.Observe(false)
	}
	require.Len(t, c.State().Items, 24)

	for i := 0; i < 3; i++ {
		assert.False(t, tr.Observe(true))
		assert.False(t, tr.Observe(false))
	}
	assert.Equal(t, 3, src.calls())
}
