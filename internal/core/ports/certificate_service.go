package ports

import (
	"context"
	"time"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// SubmitCertificateInput is a resident's certificate request.
type SubmitCertificateInput struct {
	CertificateType string     `json:"certificate_type" validate:"required,max=80"`
	FirstName       string     `json:"first_name" validate:"required,max=80"`
	MiddleName      string     `json:"middle_name" validate:"max=80"`
	LastName        string     `json:"last_name" validate:"required,max=80"`
	ContactNumber   string     `json:"contact_number" validate:"required,ph_mobile"`
	Email           string     `json:"email" validate:"omitempty,email"`
	BirthDate       *time.Time `json:"birth_date"`
	HouseholdCode   string     `json:"household_code" validate:"required,min=3,max=5"`
	Purpose         string     `json:"purpose" validate:"required,max=500"`
	Priority        string     `json:"priority" validate:"omitempty,oneof=normal urgent"`
}

// SubmitResult is returned after a request is stored.
type SubmitResult struct {
	ControlNumber string
	Status        domain.CertificateStatus
	Priority      string
	RequestedAt   time.Time
	Receipt       string
}

// StaffIdentity is the actor performing a staff action.
type StaffIdentity struct {
	ID       string
	Username string
	Role     domain.Role
}

// BulkAdvanceResult is the per-request outcome of a bulk transition.
type BulkAdvanceResult struct {
	ControlNumber string `json:"control_number"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// CertificatePage is one page of the staff listing.
type CertificatePage struct {
	Items      []*domain.CertificateRequest
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TrackingView is the reduced view shown to a resident holding a receipt.
type TrackingView struct {
	ControlNumber   string
	CertificateType string
	Status          domain.CertificateStatus
	RequestedAt     time.Time
	ProcessedDate   *time.Time
	Remarks         string
}

// CertificateService is the certificate request lifecycle.
type CertificateService interface {
	Submit(ctx context.Context, input SubmitCertificateInput) (*SubmitResult, error)
	Advance(ctx context.Context, controlNumber, newStatus string, staff StaffIdentity, notes string) error
	BulkAdvance(ctx context.Context, controlNumbers []string, newStatus string, staff StaffIdentity, notes string) []BulkAdvanceResult
	Get(ctx context.Context, controlNumber string) (*domain.CertificateRequest, error)
	List(ctx context.Context, filter ListCertificatesFilter) (*CertificatePage, error)
	Stats(ctx context.Context) (map[domain.CertificateStatus]int64, error)
	Track(ctx context.Context, controlNumber, receipt string) (*TrackingView, error)
}
