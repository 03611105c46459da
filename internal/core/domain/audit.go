package domain

import "time"

// AuditAction is the kind of change recorded in the audit log.
type AuditAction string

const (
	AuditLogin          AuditAction = "login"
	AuditLogout         AuditAction = "logout"
	AuditPasswordChange AuditAction = "password_change"
	AuditCreate         AuditAction = "create"
	AuditApprove        AuditAction = "approve"
	AuditReject         AuditAction = "reject"
	AuditUpdate         AuditAction = "update"
)

// Entity types referenced by audit entries.
const (
	EntityStaffUser          = "staff_user"
	EntityCertificateRequest = "certificate_request"
	EntityIncidentReport     = "incident_report"
)

// Performer types.
const (
	PerformerStaff    = "staff"
	PerformerResident = "resident"
	PerformerSystem   = "system"
)

// AuditLogEntry is an immutable, append-only record of a mutating action.
type AuditLogEntry struct {
	ID              string         `json:"id" bson:"_id,omitempty"`
	Action          AuditAction    `json:"action" bson:"action"`
	EntityType      string         `json:"entity_type" bson:"entity_type"`
	EntityID        string         `json:"entity_id" bson:"entity_id"`
	PerformedBy     string         `json:"performed_by" bson:"performed_by"`
	PerformedByType string         `json:"performed_by_type" bson:"performed_by_type"`
	Details         map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
}

// AuditActionForStatus picks the audit action recorded for a status change.
func AuditActionForStatus(next CertificateStatus) AuditAction {
	switch next {
	case StatusApproved:
		return AuditApprove
	case StatusRejected:
		return AuditReject
	default:
		return AuditUpdate
	}
}
