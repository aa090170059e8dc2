package domain

import (
	"context"
	"time"
)

// SessionTTL is the fixed lifetime of a session. Records are never extended;
// a new login is the only way to get a fresh expiry.
const SessionTTL = 7 * 24 * time.Hour

// SessionRecord binds an opaque session id to a snapshot of the principal
// taken at login time.
type SessionRecord struct {
	ID        string
	Principal Principal
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record is no longer valid at now.
func (s *SessionRecord) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionRepository defines the data-access contract for session records.
// Records are independent of each other; implementations must tolerate
// concurrent Create/Get/Delete on different ids.
type SessionRepository interface {
	// Create stores a new session record.
	Create(ctx context.Context, rec SessionRecord) error

	// Get returns the record for id.
	// Returns (nil, nil) when no record exists. Expiry is checked by the caller.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// Delete removes the record for id. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every record that expired before now and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
