package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/middleware"
)

// Guard is the single place where protected operations are checked. It
// authenticates the session token and then consults the permission table.
// It never mutates state.
type Guard struct {
	auth  *AuthService
	rules domain.PermissionTable
}

// NewGuard creates a Guard over the given permission table.
func NewGuard(auth *AuthService, rules domain.PermissionTable) *Guard {
	return &Guard{auth: auth, rules: rules}
}

// Check authenticates token and authorizes op. It returns ErrUnauthorized
// when the session is missing or expired and ErrForbidden when the role is
// not allowed. Authentication is always checked first.
func (g *Guard) Check(ctx context.Context, token string, op domain.Operation) (*domain.Principal, error) {
	rec, err := g.auth.Authenticate(ctx, token)
	if err != nil {
		middleware.GuardDecisions.WithLabelValues(string(op), "unauthorized").Inc()
		return nil, err
	}

	if err := g.Authorize(rec.Principal, op); err != nil {
		middleware.GuardDecisions.WithLabelValues(string(op), "forbidden").Inc()
		return nil, err
	}

	middleware.GuardDecisions.WithLabelValues(string(op), "allowed").Inc()
	return &rec.Principal, nil
}

// Authorize checks an already authenticated principal against op.
func (g *Guard) Authorize(p domain.Principal, op domain.Operation) error {
	if !g.rules.Allows(op, p.Role) {
		return fmt.Errorf("role %q on %q: %w", p.Role, op, ErrForbidden)
	}
	return nil
}
