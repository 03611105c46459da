package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

const (
	defaultSessionTTL = 8 * time.Hour
	minPasswordLength = 8
	tokenBytes        = 32
)

// AuthService implements staff login and server-side sessions.
type AuthService struct {
	staff    ports.StaffRepository
	sessions ports.SessionRepository
	limiter  ports.LoginLimiter
	audit    ports.AuditService
	ttl      time.Duration
	log      zerolog.Logger
	nowFunc  func() time.Time
}

// NewAuthService wires the auth service. A nil limiter disables rate limiting.
func NewAuthService(
	staff ports.StaffRepository,
	sessions ports.SessionRepository,
	limiter ports.LoginLimiter,
	audit ports.AuditService,
	ttl time.Duration,
	log zerolog.Logger,
) *AuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		staff:    staff,
		sessions: sessions,
		limiter:  limiter,
		audit:    audit,
		ttl:      ttl,
		log:      log,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

// Login checks credentials and issues a new session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	user, err := s.staff.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrStaffNotFound) {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if errors.Is(err, domain.ErrUnknownRole) {
		s.log.Error().Err(err).Str("username", username).Msg("staff record has an unknown role, refusing login")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	now := s.nowFunc()
	session := &domain.Session{
		Token:     token,
		StaffID:   user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}

	if err := s.staff.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("staff_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLoginAt = &now
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login attempts")
		}
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditLogin,
		EntityType:      domain.EntityStaffUser,
		EntityID:        user.ID,
		PerformedBy:     user.ID,
		PerformedByType: domain.PerformerStaff,
	})

	s.log.Info().Str("staff_id", user.ID).Str("role", string(user.Role)).Msg("staff logged in")

	return &ports.LoginResult{Token: token, User: user, ExpiresAt: session.ExpiresAt}, nil
}

// Validate reports whether token currently grants access. It never renews the session.
func (s *AuthService) Validate(ctx context.Context, token string) (*ports.ValidateResult, error) {
	_, user, err := s.activeSession(ctx, token)
	if errors.Is(err, domain.ErrSessionInvalid) {
		return &ports.ValidateResult{Valid: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ports.ValidateResult{Valid: true, User: user}, nil
}

// GetSession returns the authenticated user and the session expiry.
func (s *AuthService) GetSession(ctx context.Context, token string) (*ports.SessionInfo, error) {
	session, user, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &ports.SessionInfo{User: user, ExpiresAt: session.ExpiresAt}, nil
}

// Extend pushes the expiry to now+TTL while the session document still exists.
func (s *AuthService) Extend(ctx context.Context, token string) (*ports.ExtendResult, error) {
	if token == "" {
		return &ports.ExtendResult{Success: false}, nil
	}
	expiresAt := s.nowFunc().Add(s.ttl)
	err := s.sessions.UpdateExpiry(ctx, token, expiresAt)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return &ports.ExtendResult{Success: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extend session: %w", err)
	}
	return &ports.ExtendResult{Success: true, ExpiresAt: expiresAt}, nil
}

// Logout deletes the session. Calling it for an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	var staffID string
	if token != "" {
		session, err := s.sessions.FindByToken(ctx, token)
		switch {
		case err == nil:
			staffID = session.StaffID
		case !errors.Is(err, domain.ErrSessionNotFound):
			s.log.Warn().Err(err).Msg("failed to look up session on logout")
		}
		if err := s.sessions.Delete(ctx, token); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditLogout,
		EntityType:      domain.EntityStaffUser,
		EntityID:        staffID,
		PerformedBy:     staffID,
		PerformedByType: domain.PerformerStaff,
	})
	return nil
}

// ChangePassword replaces the password of the session owner.
func (s *AuthService) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	_, user, err := s.activeSession(ctx, token)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.staff.UpdatePassword(ctx, user.ID, string(hash), s.nowFunc()); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditPasswordChange,
		EntityType:      domain.EntityStaffUser,
		EntityID:        user.ID,
		PerformedBy:     user.ID,
		PerformedByType: domain.PerformerStaff,
	})
	return nil
}

// activeSession resolves token to a live session and an active owner.
// Every reason to deny access collapses into domain.ErrSessionInvalid;
// only storage failures are returned as other errors.
func (s *AuthService) activeSession(ctx context.Context, token string) (*domain.Session, *domain.StaffUser, error) {
	if token == "" {
		return nil, nil, domain.ErrSessionInvalid
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil, domain.ErrSessionInvalid
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if !session.ActiveAt(s.nowFunc()) {
		return nil, nil, domain.ErrSessionInvalid
	}

	user, err := s.staff.FindByID(ctx, session.StaffID)
	if errors.Is(err, domain.ErrStaffNotFound) {
		return nil, nil, domain.ErrSessionInvalid
	}
	if errors.Is(err, domain.ErrUnknownRole) {
		s.log.Error().Err(err).Str("staff_id", session.StaffID).Msg("session owner has an unknown role")
		return nil, nil, domain.ErrSessionInvalid
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session owner: %w", err)
	}
	if !user.IsActive {
		return nil, nil, domain.ErrSessionInvalid
	}
	return session, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

// generateToken returns 64 hex characters from 32 random bytes.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword hashes a plain-text password for storage.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", domain.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// EnsureAdmin creates an active admin account when username is not taken yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, fullName string) error {
	if username == "" {
		return nil
	}
	_, err := s.staff.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrStaffNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	now := s.nowFunc()
	created, err := s.staff.Create(ctx, &domain.StaffUser{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrStaffExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditCreate,
		EntityType:      domain.EntityStaffUser,
		EntityID:        created.ID,
		PerformedByType: domain.PerformerSystem,
	})
	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
