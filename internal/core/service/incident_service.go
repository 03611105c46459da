package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

type incidentService struct {
	repo       ports.IncidentRepository
	audit      ports.AuditService
	validate   *validator.Validate
	log        zerolog.Logger
	nowFunc    func() time.Time
	suffixFunc func() (int, error)
}

// NewIncidentService returns an IncidentService implementation.
func NewIncidentService(repo ports.IncidentRepository, audit ports.AuditService, log zerolog.Logger) ports.IncidentService {
	return &incidentService{
		repo:       repo,
		audit:      audit,
		validate:   NewValidate(),
		log:        log,
		nowFunc:    func() time.Time { return time.Now().UTC() },
		suffixFunc: randomSuffix,
	}
}

// Submit files a resident incident report and returns its INC number.
func (s *incidentService) Submit(ctx context.Context, input ports.SubmitIncidentInput) (string, error) {
	input.ContactNumber = strings.TrimSpace(input.ContactNumber)
	input.HouseholdCode = strings.TrimSpace(input.HouseholdCode)
	if err := s.validate.Struct(input); err != nil {
		return "", ToValidationError(err)
	}

	now := s.nowFunc()
	report := &domain.IncidentReport{
		IncidentType: input.IncidentType,
		Description:  input.Description,
		Location:     input.Location,
		IncidentDate: input.IncidentDate.UTC(),
		Reporter: domain.Requester{
			FirstName:     input.FirstName,
			LastName:      input.LastName,
			ContactNumber: input.ContactNumber,
			HouseholdCode: input.HouseholdCode,
		},
		Status:     domain.IncidentStatusReported,
		ReportedAt: now,
	}

	err := allocateNumber(s.suffixFunc, func(suffix int) error {
		report.IncidentNumber = domain.FormatIncidentNumber(now, suffix)
		return s.repo.Create(ctx, report)
	})
	if err != nil {
		return "", fmt.Errorf("submit incident report: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditCreate,
		EntityType:      domain.EntityIncidentReport,
		EntityID:        report.IncidentNumber,
		PerformedBy:     report.Reporter.FullName(),
		PerformedByType: domain.PerformerResident,
		Details:         map[string]any{"incident_type": report.IncidentType},
	})

	s.log.Info().Str("incident_number", report.IncidentNumber).Msg("incident report filed")
	return report.IncidentNumber, nil
}

func (s *incidentService) List(ctx context.Context, page, limit int) (*ports.IncidentPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list incident reports: %w", err)
	}
	return &ports.IncidentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
