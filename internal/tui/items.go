package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

type articleItem struct {
	article domain.Article
}

func (i articleItem) Title() string {
	if i.article.Breaking {
		return "● " + i.article.Title
	}
	return i.article.Title
}

func (i articleItem) Description() string {
	if i.article.PublishedAt == nil {
		return i.article.Summary
	}
	return fmt.Sprintf("%s | %s", i.article.PublishedAt.Format("Jan 2, 15:04"), i.article.Summary)
}

func (i articleItem) FilterValue() string {
	return i.article.Title
}

var _ list.Item = articleItem{}

// listViewport reports the sentinel as visible when the list shows its
// final page, which always contains the last item.
type listViewport struct {
	l *list.Model
}

func (v listViewport) SentinelVisible() bool {
	if len(v.l.Items()) == 0 || v.l.FilterState() != list.Unfiltered {
		return false
	}
	return v.l.Paginator.OnLastPage()
}
