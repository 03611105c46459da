package domain

import (
	"errors"
	"fmt"
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrRateLimited        = errors.New("too many failed login attempts, please try again later")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrStaffNotFound      = errors.New("staff user not found")
	ErrStaffExists        = errors.New("staff user already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrForbidden          = errors.New("access forbidden")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownFeature     = errors.New("unknown feature")
)

// Lifecycle errors.
var (
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidStatus          = errors.New("unknown certificate status")
	ErrCertificateNotFound    = errors.New("certificate request not found")
	ErrIncidentNotFound       = errors.New("incident report not found")
	ErrDuplicateNumber        = errors.New("reference number already exists")
	ErrControlNumberExhausted = errors.New("could not allocate a unique reference number")
	ErrValidation             = errors.New("validation failed")
)

// ValidationError names the submitted field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
