package v1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored password hashes.
const PasswordCost = 12

// sessionIDBytes is the entropy of a session id before encoding.
const sessionIDBytes = 32

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// timingHash returns a valid hash that no password matches. Comparing
// against it keeps unknown-user logins as slow as wrong-password ones.
func timingHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("newsroom-timing-equaliser"), PasswordCost)
	})
	return dummyHash
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Session is what a successful login hands back to the web layer.
type Session struct {
	Token     string
	Principal domain.Principal
	ExpiresAt time.Time
}

// AuthService implements credential verification and session issuance.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	now      func() time.Time
}

// NewAuthService creates a new AuthService with the given repository dependencies.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login verifies the credentials and, on success, stores a new session
// record and returns its token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*Session, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	principal, err := s.verify(ctx, req.Username, req.Password)
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		middleware.AuthAttempts.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	// Update last_login timestamp (best-effort, don't fail login)
	if updateErr := s.users.UpdateLastLogin(ctx, principal.ID); updateErr != nil {
		span.RecordError(fmt.Errorf("update last_login: %w", updateErr))
	}

	id, err := newSessionID()
	if err != nil {
		span.RecordError(err)
		middleware.AuthAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	now := s.now()
	rec := domain.SessionRecord{
		ID:        id,
		Principal: *principal,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.SessionTTL),
	}
	if err := s.sessions.Create(ctx, rec); err != nil {
		span.RecordError(err)
		middleware.AuthAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create session: %w", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", principal.ID),
		attribute.String("user.role", string(principal.Role)),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")
	middleware.AuthAttempts.WithLabelValues("success").Inc()

	return &Session{Token: id, Principal: *principal, ExpiresAt: rec.ExpiresAt}, nil
}

// verify is the credential check. Unknown, inactive and mismatched users all
// yield ErrInvalidCredentials.
func (s *AuthService) verify(ctx context.Context, username, password string) (*domain.Principal, error) {
	row, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	if row == nil || !row.Active {
		_ = bcrypt.CompareHashAndPassword(timingHash(), []byte(password))
		return nil, fmt.Errorf("authenticate user %q: %w", username, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("authenticate user %q: %w", username, ErrInvalidCredentials)
	}

	p := row.Principal()
	return &p, nil
}

// Authenticate resolves a session token to its record. Unknown and expired
// tokens both return ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.SessionRecord, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.authenticate", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if token == "" {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("no session token: %w", ErrUnauthorized)
	}

	rec, err := s.sessions.Get(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query session: %w", err)
	}
	if rec == nil || rec.Expired(s.now()) {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("lookup session: %w", ErrUnauthorized)
	}

	span.SetAttributes(
		attribute.Int("user.id", rec.Principal.ID),
		attribute.Bool("session.valid", true),
	)
	return rec, nil
}

// Logout deletes the session for token. It succeeds for unknown, expired
// and empty tokens.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return "invalid"
	}
	return "error"
}
