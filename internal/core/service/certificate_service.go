package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// maxNumberAttempts bounds how many reference numbers are tried before giving up.
const maxNumberAttempts = 5

// CertificateService implements the certificate request lifecycle.
type CertificateService struct {
	repo     ports.CertificateRepository
	audit    ports.AuditService
	notifier ports.Notifier
	receipts ports.ReceiptIssuer
	validate *validator.Validate
	log      zerolog.Logger

	nowFunc    func() time.Time
	suffixFunc func() (int, error)
}

// NewCertificateService wires the lifecycle. notifier and receipts may be nil.
func NewCertificateService(
	repo ports.CertificateRepository,
	audit ports.AuditService,
	notifier ports.Notifier,
	receipts ports.ReceiptIssuer,
	log zerolog.Logger,
) *CertificateService {
	return &CertificateService{
		repo:       repo,
		audit:      audit,
		notifier:   notifier,
		receipts:   receipts,
		validate:   NewValidate(),
		log:        log,
		nowFunc:    func() time.Time { return time.Now().UTC() },
		suffixFunc: randomSuffix,
	}
}

// Submit validates a resident's request, stores it as pending and returns its control number.
func (s *CertificateService) Submit(ctx context.Context, input ports.SubmitCertificateInput) (*ports.SubmitResult, error) {
	input.ContactNumber = strings.TrimSpace(input.ContactNumber)
	input.HouseholdCode = strings.TrimSpace(input.HouseholdCode)
	input.Priority = strings.ToLower(strings.TrimSpace(input.Priority))

	if err := s.validate.Struct(input); err != nil {
		return nil, ToValidationError(err)
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityNormal
	}

	now := s.nowFunc()
	req := &domain.CertificateRequest{
		CertificateType: input.CertificateType,
		Requester: domain.Requester{
			FirstName:     input.FirstName,
			MiddleName:    input.MiddleName,
			LastName:      input.LastName,
			ContactNumber: input.ContactNumber,
			Email:         input.Email,
			BirthDate:     input.BirthDate,
			HouseholdCode: input.HouseholdCode,
		},
		Purpose:     input.Purpose,
		Priority:    input.Priority,
		Status:      domain.StatusPending,
		RequestedAt: now,
		UpdatedAt:   now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusPending, ChangedAt: now},
		},
	}

	err := allocateNumber(s.suffixFunc, func(suffix int) error {
		req.ControlNumber = domain.FormatControlNumber(now, suffix)
		return s.repo.Create(ctx, req)
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create certificate request")
		return nil, fmt.Errorf("submit certificate request: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditCreate,
		EntityType:      domain.EntityCertificateRequest,
		EntityID:        req.ControlNumber,
		PerformedBy:     req.Requester.FullName(),
		PerformedByType: domain.PerformerResident,
		Details: map[string]any{
			"certificate_type": req.CertificateType,
			"priority":         req.Priority,
		},
	})

	result := &ports.SubmitResult{
		ControlNumber: req.ControlNumber,
		Status:        req.Status,
		Priority:      req.Priority,
		RequestedAt:   req.RequestedAt,
	}
	if s.receipts != nil {
		receipt, err := s.receipts.Issue(req.ControlNumber, now)
		if err != nil {
			s.log.Warn().Err(err).Str("control_number", req.ControlNumber).Msg("failed to issue receipt")
		} else {
			result.Receipt = receipt
		}
	}

	s.log.Info().
		Str("control_number", req.ControlNumber).
		Str("certificate_type", req.CertificateType).
		Msg("certificate request submitted")

	return result, nil
}

// Advance moves a request to newStatus when the lifecycle allows it.
func (s *CertificateService) Advance(ctx context.Context, controlNumber, newStatus string, staff ports.StaffIdentity, notes string) error {
	next, err := domain.ParseCertificateStatus(newStatus)
	if err != nil {
		return err
	}

	req, err := s.repo.FindByControlNumber(ctx, controlNumber)
	if err != nil {
		return fmt.Errorf("advance %s: %w", controlNumber, err)
	}

	if !req.Status.CanTransitionTo(next) {
		return fmt.Errorf("advance %s: %w (from %s to %s)", controlNumber, domain.ErrInvalidTransition, req.Status, next)
	}

	now := s.nowFunc()
	update := ports.StatusUpdate{
		ControlNumber: controlNumber,
		Status:        next,
		ProcessedBy:   staff.ID,
		History: domain.StatusHistoryEntry{
			Status:    next,
			ChangedAt: now,
			ChangedBy: staff.ID,
			Notes:     notes,
		},
		Remarks: notes,
	}
	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		return fmt.Errorf("advance %s: update status: %w", controlNumber, err)
	}

	s.audit.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditActionForStatus(next),
		EntityType:      domain.EntityCertificateRequest,
		EntityID:        controlNumber,
		PerformedBy:     staff.ID,
		PerformedByType: domain.PerformerStaff,
		Details: map[string]any{
			"from":  string(req.Status),
			"to":    string(next),
			"notes": notes,
		},
	})

	if s.notifier != nil {
		n := ports.StatusNotification{
			ControlNumber:   controlNumber,
			CertificateType: req.CertificateType,
			Status:          string(next),
			StatusLabel:     next.Label(),
			Notes:           notes,
			RecipientName:   req.Requester.FullName(),
			RecipientEmail:  req.Requester.Email,
			RecipientPhone:  req.Requester.ContactNumber,
		}
		if err := s.notifier.NotifyStatusChange(ctx, n); err != nil {
			s.log.Warn().Err(err).Str("control_number", controlNumber).Msg("failed to queue status notification")
		}
	}

	s.log.Info().
		Str("control_number", controlNumber).
		Str("from", string(req.Status)).
		Str("to", string(next)).
		Str("staff_id", staff.ID).
		Msg("certificate status updated")

	return nil
}

// BulkAdvance applies Advance to each control number independently, preserving input order.
func (s *CertificateService) BulkAdvance(ctx context.Context, controlNumbers []string, newStatus string, staff ports.StaffIdentity, notes string) []ports.BulkAdvanceResult {
	results := make([]ports.BulkAdvanceResult, 0, len(controlNumbers))
	for _, cn := range controlNumbers {
		res := ports.BulkAdvanceResult{ControlNumber: cn, Success: true}
		if err := s.Advance(ctx, cn, newStatus, staff, notes); err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *CertificateService) Get(ctx context.Context, controlNumber string) (*domain.CertificateRequest, error) {
	req, err := s.repo.FindByControlNumber(ctx, controlNumber)
	if err != nil {
		return nil, fmt.Errorf("get certificate request: %w", err)
	}
	return req, nil
}

func (s *CertificateService) List(ctx context.Context, filter ports.ListCertificatesFilter) (*ports.CertificatePage, error) {
	if filter.Status != "" {
		st, err := domain.ParseCertificateStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = string(st)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list certificate requests: %w", err)
	}
	return &ports.CertificatePage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Stats counts requests per status. Every status is present in the result.
func (s *CertificateService) Stats(ctx context.Context) (map[domain.CertificateStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("certificate stats: %w", err)
	}
	stats := make(map[domain.CertificateStatus]int64, len(domain.CertificateStatuses))
	for _, st := range domain.CertificateStatuses {
		stats[st] = counts[st]
	}
	return stats, nil
}

// Track returns the public view of a request to the holder of its receipt.
func (s *CertificateService) Track(ctx context.Context, controlNumber, receipt string) (*ports.TrackingView, error) {
	if s.receipts == nil || receipt == "" {
		return nil, domain.ErrForbidden
	}
	signed, err := s.receipts.Verify(receipt)
	if err != nil || signed != controlNumber {
		return nil, domain.ErrForbidden
	}

	req, err := s.repo.FindByControlNumber(ctx, controlNumber)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", controlNumber, err)
	}
	return &ports.TrackingView{
		ControlNumber:   req.ControlNumber,
		CertificateType: req.CertificateType,
		Status:          req.Status,
		RequestedAt:     req.RequestedAt,
		ProcessedDate:   req.ProcessedDate,
		Remarks:         req.Remarks,
	}, nil
}

// allocateNumber calls create with fresh random suffixes until it stops
// reporting a duplicate number, up to maxNumberAttempts times.
func allocateNumber(suffixFunc func() (int, error), create func(suffix int) error) error {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		suffix, err := suffixFunc()
		if err != nil {
			return err
		}
		err = create(suffix)
		if errors.Is(err, domain.ErrDuplicateNumber) {
			continue
		}
		return err
	}
	return domain.ErrControlNumberExhausted
}

// randomSuffix returns a crypto-random number in 0..9999.
func randomSuffix() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return 0, fmt.Errorf("generate reference suffix: %w", err)
	}
	return int(n.Int64()), nil
}
