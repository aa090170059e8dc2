package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/internal/feed"
)

// Options configures a reader session.
type Options struct {
	PageSize       int
	Category       *int64
	TickerInterval time.Duration
}

// Run starts the reader and blocks until the user quits. The ticker poller
// lives exactly as long as the program.
func Run(ctx context.Context, client *feed.Client, opts Options, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cursor := feed.NewCursor(client, opts.PageSize, opts.Category)
	p := tea.NewProgram(New(ctx, cursor, client, logger), tea.WithAltScreen(), tea.WithContext(ctx))

	poller := feed.NewPoller(client, opts.TickerInterval, func(items []domain.Article) {
		p.Send(tickerMsg{items: items})
	}, logger)
	poller.Start(ctx)
	defer poller.Stop()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run reader: %w", err)
	}
	return nil
}
