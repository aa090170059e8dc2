package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	DefaultBreakingWindow = 24 * time.Hour
	MaxBreakingWindow     = 7 * 24 * time.Hour
	BreakingLimit         = 20
)

// ArticleService serves the public feed and the admin content views.
type ArticleService struct {
	articles domain.ArticleRepository
	users    domain.UserRepository
	now      func() time.Time
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articles domain.ArticleRepository, users domain.UserRepository) *ArticleService {
	return &ArticleService{articles: articles, users: users, now: time.Now}
}

// ValidatePage checks paging bounds. A zero limit means the default.
func ValidatePage(req domain.PageRequest) (domain.PageRequest, error) {
	if req.Limit == 0 {
		req.Limit = DefaultPageLimit
	}
	if req.Limit < 1 || req.Limit > MaxPageLimit {
		return req, fmt.Errorf("limit %d out of range [1,%d]: %w", req.Limit, MaxPageLimit, ErrInvalidRequest)
	}
	if req.Offset < 0 {
		return req, fmt.Errorf("negative offset %d: %w", req.Offset, ErrInvalidRequest)
	}
	return req, nil
}

// List returns one page of published articles. A page shorter than the
// requested limit means there is nothing further.
func (s *ArticleService) List(ctx context.Context, req domain.PageRequest) ([]domain.Article, error) {
	ctx, span := middleware.StartSpan(ctx, "articles.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	))
	defer span.End()

	req, err := ValidatePage(req)
	if err != nil {
		return nil, err
	}

	items, err := s.articles.ListPublished(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list articles: %w", err)
	}
	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// Get returns a single published article.
func (s *ArticleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	a, err := s.articles.GetPublished(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	if a == nil {
		return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// Breaking returns the current urgent set published within window.
// A zero window means the default.
func (s *ArticleService) Breaking(ctx context.Context, window time.Duration) ([]domain.Article, error) {
	if window == 0 {
		window = DefaultBreakingWindow
	}
	if window < 0 || window > MaxBreakingWindow {
		return nil, fmt.Errorf("window %s out of range: %w", window, ErrInvalidRequest)
	}

	items, err := s.articles.ListBreaking(ctx, s.now().Add(-window), BreakingLimit)
	if err != nil {
		return nil, fmt.Errorf("list breaking: %w", err)
	}
	return items, nil
}

// Categories lists browseable categories.
func (s *ArticleService) Categories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.articles.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// AdminList returns a page of articles including drafts.
func (s *ArticleService) AdminList(ctx context.Context, req domain.PageRequest) ([]domain.Article, error) {
	req, err := ValidatePage(req)
	if err != nil {
		return nil, err
	}
	items, err := s.articles.ListAll(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("admin list articles: %w", err)
	}
	return items, nil
}

// Publish publishes a draft.
func (s *ArticleService) Publish(ctx context.Context, id int64) error {
	ok, err := s.articles.Publish(ctx, id, s.now())
	if err != nil {
		return fmt.Errorf("publish article %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	ok, err := s.articles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// Dashboard returns the admin summary counts.
func (s *ArticleService) Dashboard(ctx context.Context) (domain.Stats, error) {
	st, err := s.articles.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return st, nil
}

// Staff lists staff accounts without credential material.
func (s *ArticleService) Staff(ctx context.Context) ([]domain.Principal, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.Principal, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Principal())
	}
	return out, nil
}
