package ports

import (
	"context"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// AuditFilter narrows an audit log listing.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Action     string
	Page       int
	Limit      int
}

// AuditRepository appends to and reads from the audit log. Entries are never
// updated or deleted.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuditLogEntry, int64, error)
}

// AuditPage is one page of audit entries.
type AuditPage struct {
	Items      []*domain.AuditLogEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AuditService records and lists audit entries.
type AuditService interface {
	// Record stamps and stores the entry. Failures are logged, never returned.
	Record(ctx context.Context, entry domain.AuditLogEntry)
	List(ctx context.Context, filter AuditFilter) (*AuditPage, error)
}
