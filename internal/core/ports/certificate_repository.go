package ports

import (
	"context"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// ListCertificatesFilter carries the query parameters for the staff listing.
type ListCertificatesFilter struct {
	Status          string // optional
	CertificateType string // optional
	Search          string // optional: partial match on control number or requester name
	Page            int    // 1-based
	Limit           int
}

// StatusUpdate is the change persisted by a lifecycle transition.
type StatusUpdate struct {
	ControlNumber string
	Status        domain.CertificateStatus
	ProcessedBy   string
	History       domain.StatusHistoryEntry
	Remarks       string // empty keeps the current remarks
}

// CertificateRepository defines persistence for certificate requests.
type CertificateRepository interface {
	// Create returns domain.ErrDuplicateNumber when the control number is taken.
	Create(ctx context.Context, req *domain.CertificateRequest) error
	FindByControlNumber(ctx context.Context, controlNumber string) (*domain.CertificateRequest, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) error
	List(ctx context.Context, filter ListCertificatesFilter) ([]*domain.CertificateRequest, int64, error)
	CountByStatus(ctx context.Context) (map[domain.CertificateStatus]int64, error)
}
