package domain

import (
	"context"
	"time"
)

// Article is the public projection of a news article.
type Article struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	Breaking    bool       `json:"breaking"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Category groups articles for browsing.
type Category struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PageRequest selects a bounded slice of the published article list.
type PageRequest struct {
	Limit      int
	Offset     int
	CategoryID *int64
}

// Stats is the admin dashboard summary.
type Stats struct {
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
	Breaking  int `json:"breaking"`
	Users     int `json:"users"`
}

// ArticleRepository is the read side of article storage used by the public
// feed and the admin console. Authoring lives outside this service.
type ArticleRepository interface {
	// ListPublished returns published articles newest first.
	ListPublished(ctx context.Context, req PageRequest) ([]Article, error)

	// ListAll returns published and draft articles newest first.
	ListAll(ctx context.Context, req PageRequest) ([]Article, error)

	// ListBreaking returns published breaking articles newer than since,
	// newest first, at most limit.
	ListBreaking(ctx context.Context, since time.Time, limit int) ([]Article, error)

	// GetPublished returns the published article with id, or (nil, nil).
	GetPublished(ctx context.Context, id int64) (*Article, error)

	// Publish marks the article published. Reports false if it does not exist.
	Publish(ctx context.Context, id int64, at time.Time) (bool, error)

	// Delete removes the article. Reports false if it does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// Categories returns all categories ordered by name.
	Categories(ctx context.Context) ([]Category, error)

	// Stats returns dashboard counts.
	Stats(ctx context.Context) (Stats, error)
}
