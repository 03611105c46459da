package ports

import (
	"context"
	"time"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// SubmitIncidentInput is a resident's incident report.
type SubmitIncidentInput struct {
	IncidentType  string    `json:"incident_type" validate:"required,max=80"`
	Description   string    `json:"description" validate:"required,max=2000"`
	Location      string    `json:"location" validate:"required,max=200"`
	IncidentDate  time.Time `json:"incident_date" validate:"required"`
	FirstName     string    `json:"first_name" validate:"required,max=80"`
	LastName      string    `json:"last_name" validate:"required,max=80"`
	ContactNumber string    `json:"contact_number" validate:"required,ph_mobile"`
	HouseholdCode string    `json:"household_code" validate:"required,min=3,max=5"`
}

// IncidentRepository persists incident reports.
type IncidentRepository interface {
	// Create returns domain.ErrDuplicateNumber when the incident number is taken.
	Create(ctx context.Context, report *domain.IncidentReport) error
	List(ctx context.Context, page, limit int) ([]*domain.IncidentReport, int64, error)
}

// IncidentPage is one page of incident reports.
type IncidentPage struct {
	Items      []*domain.IncidentReport
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// IncidentService handles resident incident intake.
type IncidentService interface {
	Submit(ctx context.Context, input SubmitIncidentInput) (string, error)
	List(ctx context.Context, page, limit int) (*IncidentPage, error)
}
