package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository using pgxpool.
// The principal snapshot is denormalised into the row so a lookup is a
// single-table read.
type PgxSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PgxSessionRepository {
	return &PgxSessionRepository{pool: pool}
}

// Create inserts a new session record.
func (r *PgxSessionRepository) Create(ctx context.Context, rec domain.SessionRecord) error {
	query := `
		INSERT INTO sessions (id, user_id, username, email, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	p := rec.Principal
	_, err := r.pool.Exec(ctx, query, rec.ID, p.ID, p.Username, p.Email, string(p.Role), rec.CreatedAt, rec.ExpiresAt)
	return err
}

// Get looks up the session by id.
// Returns (nil, nil) when the id does not match any session.
func (r *PgxSessionRepository) Get(ctx context.Context, id string) (*domain.SessionRecord, error) {
	query := `
		SELECT id, user_id, username, email, role, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`

	var rec domain.SessionRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Principal.ID, &rec.Principal.Username, &rec.Principal.Email,
		&rec.Principal.Role, &rec.CreatedAt, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Principal.Active = true

	return &rec, nil
}

// Delete removes the session. A missing id is not an error.
func (r *PgxSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired purges sessions whose expiry is not after now.
func (r *PgxSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
