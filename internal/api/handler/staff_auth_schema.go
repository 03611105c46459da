package handler

import (
	"time"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// --- Request types ---

// actionRequest is the envelope every /api/staff-auth call carries. Action
// specific fields sit next to action and token in the same JSON object.
type actionRequest struct {
	Action string `json:"action" example:"login"`
	Token  string `json:"token,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type listCertificatesRequest struct {
	Status          string `json:"status"`
	CertificateType string `json:"certificate_type"`
	Search          string `json:"search"`
	Page            int    `json:"page"  validate:"omitempty,min=1"`
	Limit           int    `json:"limit" validate:"omitempty,min=1"`
}

type getCertificateRequest struct {
	ControlNumber string `json:"control_number" validate:"required"`
}

type updateStatusRequest struct {
	ControlNumber string `json:"control_number" validate:"required"`
	Status        string `json:"status"         validate:"required"`
	Notes         string `json:"notes"          validate:"max=1000"`
}

type bulkUpdateStatusRequest struct {
	ControlNumbers []string `json:"control_numbers" validate:"required,min=1,max=100,dive,required"`
	Status         string   `json:"status"          validate:"required"`
	Notes          string   `json:"notes"           validate:"max=1000"`
}

type pageRequest struct {
	Page  int `json:"page"  validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1"`
}

type auditLogsRequest struct {
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	AuditAction string `json:"audit_action"`
	Page        int    `json:"page"  validate:"omitempty,min=1"`
	Limit       int    `json:"limit" validate:"omitempty,min=1"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

// --- Response types ---

type loginResponse struct {
	Token     string            `json:"token"`
	User      *domain.StaffUser `json:"user"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type validateResponse struct {
	Valid bool              `json:"valid"`
	User  *domain.StaffUser `json:"user,omitempty"`
}

type extendResponse struct {
	Success   bool       `json:"success"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type sessionResponse struct {
	User        *domain.StaffUser   `json:"user"`
	ExpiresAt   time.Time           `json:"expires_at"`
	Permissions []domain.FeatureKey `json:"permissions"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type certificateListResponse struct {
	Items []*domain.CertificateRequest `json:"items"`
	pagination
}

type certificateResponse struct {
	Request      *domain.CertificateRequest `json:"request"`
	NextStatuses []domain.CertificateStatus `json:"next_statuses"`
}

type bulkUpdateResponse struct {
	Results   []ports.BulkAdvanceResult `json:"results"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
}

type dashboardStatsResponse struct {
	Certificates map[domain.CertificateStatus]int64 `json:"certificates"`
	Total        int64                              `json:"total"`
}

type incidentListResponse struct {
	Items []*domain.IncidentReport `json:"items"`
	pagination
}

type auditLogListResponse struct {
	Items []*domain.AuditLogEntry `json:"items"`
	pagination
}

type permissionsResponse struct {
	Role           domain.Role         `json:"role"`
	Features       []domain.FeatureKey `json:"features"`
	CanAccessAdmin bool                `json:"can_access_admin"`
}
