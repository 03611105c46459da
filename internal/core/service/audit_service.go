package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type auditService struct {
	repo    ports.AuditRepository
	log     zerolog.Logger
	nowFunc func() time.Time
}

// NewAuditService returns an AuditService backed by repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{
		repo:    repo,
		log:     log,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Record appends entry to the audit log. A failed write is logged and dropped
// so the action being audited still succeeds.
func (s *auditService) Record(ctx context.Context, entry domain.AuditLogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.nowFunc()
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		s.log.Warn().
			Err(err).
			Str("action", string(entry.Action)).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("failed to write audit entry")
	}
}

func (s *auditService) List(ctx context.Context, filter ports.AuditFilter) (*ports.AuditPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return &ports.AuditPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
