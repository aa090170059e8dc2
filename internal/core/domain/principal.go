package domain

import "strings"

// Role is the closed set of staff roles.
type Role string

const (
	RoleManager Role = "manager"
	RoleEditor  Role = "editor"
	RoleViewer  Role = "viewer"
)

// ParseRole returns the Role named by s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleManager, RoleEditor, RoleViewer:
		return r, true
	}
	return "", false
}

// Principal is an authenticated staff member as seen by the rest of the
// system. It never carries the password hash.
type Principal struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Active   bool   `json:"active"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful login and session probe.
// The token itself travels in the session cookie, not in the body.
type AuthResponse struct {
	User      Principal `json:"user"`
	ExpiresAt string    `json:"expires_at"`
}
