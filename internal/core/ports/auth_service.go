package ports

import (
	"context"
	"time"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	User      *domain.StaffUser
	ExpiresAt time.Time
}

// ValidateResult reports whether a token currently grants access.
type ValidateResult struct {
	Valid bool
	User  *domain.StaffUser
}

// ExtendResult reports the outcome of a session extension.
type ExtendResult struct {
	Success   bool
	ExpiresAt time.Time
}

// SessionInfo is the authenticated view returned by get-session.
type SessionInfo struct {
	User      *domain.StaffUser
	ExpiresAt time.Time
}

// AuthService issues, validates, extends and revokes staff sessions.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Validate(ctx context.Context, token string) (*ValidateResult, error)
	Extend(ctx context.Context, token string) (*ExtendResult, error)
	Logout(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*SessionInfo, error)
	ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error
}
