package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

const articleColumns = `id, slug, title, summary, category_id, breaking, published, published_at`

// PgxArticleRepository implements domain.ArticleRepository using pgxpool.
type PgxArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new PgxArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool) *PgxArticleRepository {
	return &PgxArticleRepository{pool: pool}
}

// ListPublished returns a page of published articles, newest first. The id
// tie-break keeps offsets stable between pages.
func (r *PgxArticleRepository) ListPublished(ctx context.Context, req domain.PageRequest) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE published AND ($1::bigint IS NULL OR category_id = $1)
		ORDER BY published_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, req.CategoryID, req.Limit, req.Offset)
}

// ListAll returns a page of articles including drafts.
func (r *PgxArticleRepository) ListAll(ctx context.Context, req domain.PageRequest) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1::bigint IS NULL OR category_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, req.CategoryID, req.Limit, req.Offset)
}

// ListBreaking returns the current breaking-news set.
func (r *PgxArticleRepository) ListBreaking(ctx context.Context, since time.Time, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE published AND breaking AND published_at >= $1
		ORDER BY published_at DESC, id DESC
		LIMIT $2
	`
	return r.list(ctx, query, since, limit)
}

// GetPublished returns the published article with the given id, body included.
// Returns (nil, nil) when it does not exist or is a draft.
func (r *PgxArticleRepository) GetPublished(ctx context.Context, id int64) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + `, body FROM articles WHERE id = $1 AND published`

	var a domain.Article
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Slug, &a.Title, &a.Summary, &a.CategoryID, &a.Breaking, &a.Published, &a.PublishedAt, &a.Body,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Publish marks an article as published.
func (r *PgxArticleRepository) Publish(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE articles SET published = TRUE, published_at = COALESCE(published_at, $2) WHERE id = $1`, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes an article.
func (r *PgxArticleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Categories returns every category ordered by name.
func (r *PgxArticleRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, slug, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats returns the dashboard counters in one round trip.
func (r *PgxArticleRepository) Stats(ctx context.Context) (domain.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE published),
			COUNT(*) FILTER (WHERE NOT published),
			COUNT(*) FILTER (WHERE published AND breaking),
			(SELECT COUNT(*) FROM users)
		FROM articles
	`
	var s domain.Stats
	err := r.pool.QueryRow(ctx, query).Scan(&s.Published, &s.Drafts, &s.Breaking, &s.Users)
	return s, err
}

func (r *PgxArticleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Article, 0)
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Summary, &a.CategoryID, &a.Breaking, &a.Published, &a.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
