package ports

import (
	"context"
	"time"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// StaffRepository defines persistence for staff accounts.
type StaffRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.StaffUser, error)
	FindByID(ctx context.Context, id string) (*domain.StaffUser, error)
	Create(ctx context.Context, user *domain.StaffUser) (*domain.StaffUser, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
}

// SessionRepository persists server-side sessions keyed by their opaque token.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByToken returns domain.ErrSessionNotFound when no document exists,
	// whether or not it has expired.
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	// UpdateExpiry returns domain.ErrSessionNotFound when the token is gone.
	UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error
	// Delete is idempotent.
	Delete(ctx context.Context, token string) error
}

// LoginLimiter tracks failed login attempts per username.
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
