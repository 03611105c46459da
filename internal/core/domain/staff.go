package domain

import (
	"fmt"
	"time"
)

// Role is one of the fixed staff roles of the barangay office.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleBarangayCaptain  Role = "barangay_captain"
	RoleBarangayOfficial Role = "barangay_official"
	RoleSecretary        Role = "secretary"
	RoleSKChairman       Role = "sk_chairman"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleBarangayCaptain, RoleBarangayOfficial, RoleSecretary, RoleSKChairman}

// ParseRole converts untrusted input into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// StaffUser models a barangay staff account.
type StaffUser struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email,omitempty"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Session is an opaque bearer credential issued at login.
type Session struct {
	Token     string    `json:"token"`
	StaffID   string    `json:"staff_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActiveAt reports whether the session grants access at t.
// A session whose expiry equals t is already expired.
func (s Session) ActiveAt(t time.Time) bool {
	return s.ExpiresAt.After(t)
}
