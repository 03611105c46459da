package domain

import (
	"fmt"
	"strings"
	"time"
)

// CertificateStatus represents the lifecycle state of a certificate request.
type CertificateStatus string

const (
	StatusPending        CertificateStatus = "pending"
	StatusForReview      CertificateStatus = "for_review"
	StatusVerifying      CertificateStatus = "verifying"
	StatusApproved       CertificateStatus = "approved"
	StatusReadyForPickup CertificateStatus = "ready_for_pickup"
	StatusReleased       CertificateStatus = "released"
	StatusRejected       CertificateStatus = "rejected"

	// statusSubmitted is accepted on input as an alias of pending.
	statusSubmitted = "submitted"
)

// CertificateStatuses lists every stored status.
var CertificateStatuses = []CertificateStatus{
	StatusPending, StatusForReview, StatusVerifying, StatusApproved,
	StatusReadyForPickup, StatusReleased, StatusRejected,
}

// certificateTransitions is the one place the lifecycle is defined.
// for_review and verifying name the same review step.
var certificateTransitions = map[CertificateStatus][]CertificateStatus{
	StatusPending:        {StatusForReview, StatusVerifying, StatusRejected},
	StatusForReview:      {StatusApproved, StatusRejected},
	StatusVerifying:      {StatusApproved, StatusRejected},
	StatusApproved:       {StatusReadyForPickup},
	StatusReadyForPickup: {StatusReleased},
}

// ParseCertificateStatus converts untrusted input into a CertificateStatus.
func ParseCertificateStatus(s string) (CertificateStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == statusSubmitted {
		return StatusPending, nil
	}
	for _, st := range CertificateStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s CertificateStatus) CanTransitionTo(next CertificateStatus) bool {
	for _, allowed := range certificateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func (s CertificateStatus) NextStatuses() []CertificateStatus {
	return append([]CertificateStatus(nil), certificateTransitions[s]...)
}

// IsTerminal reports whether no transition leaves s.
func (s CertificateStatus) IsTerminal() bool {
	return len(certificateTransitions[s]) == 0
}

// Label renders the status for people, e.g. "READY FOR PICKUP".
func (s CertificateStatus) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

// Priority of a certificate request.
const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// Requester is the resident identity snapshot taken at submission time.
type Requester struct {
	FirstName     string     `json:"first_name" bson:"first_name"`
	MiddleName    string     `json:"middle_name,omitempty" bson:"middle_name,omitempty"`
	LastName      string     `json:"last_name" bson:"last_name"`
	ContactNumber string     `json:"contact_number" bson:"contact_number"`
	Email         string     `json:"email,omitempty" bson:"email,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	HouseholdCode string     `json:"household_code" bson:"household_code"`
}

// FullName joins the requester's name parts.
func (r Requester) FullName() string {
	parts := []string{r.FirstName}
	if r.MiddleName != "" {
		parts = append(parts, r.MiddleName)
	}
	parts = append(parts, r.LastName)
	return strings.Join(parts, " ")
}

// StatusHistoryEntry records a single status transition on a request.
type StatusHistoryEntry struct {
	Status    CertificateStatus `json:"status" bson:"status"`
	ChangedAt time.Time         `json:"changed_at" bson:"changed_at"`
	ChangedBy string            `json:"changed_by,omitempty" bson:"changed_by,omitempty"`
	Notes     string            `json:"notes,omitempty" bson:"notes,omitempty"`
}

// CertificateRequest is the aggregate root of the certificate lifecycle.
// Requests are never deleted.
type CertificateRequest struct {
	ID              string               `json:"id" bson:"_id,omitempty"`
	ControlNumber   string               `json:"control_number" bson:"control_number"`
	CertificateType string               `json:"certificate_type" bson:"certificate_type"`
	Requester       Requester            `json:"requester" bson:"requester"`
	Purpose         string               `json:"purpose" bson:"purpose"`
	Priority        string               `json:"priority" bson:"priority"`
	Status          CertificateStatus    `json:"status" bson:"status"`
	RequestedAt     time.Time            `json:"requested_at" bson:"requested_at"`
	ProcessedBy     string               `json:"processed_by,omitempty" bson:"processed_by,omitempty"`
	ProcessedDate   *time.Time           `json:"processed_date,omitempty" bson:"processed_date,omitempty"`
	Remarks         string               `json:"remarks,omitempty" bson:"remarks,omitempty"`
	StatusHistory   []StatusHistoryEntry `json:"status_history" bson:"status_history"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}

// FormatControlNumber renders CERT-YYYYMMDD-NNNN for a suffix in 0..9999.
func FormatControlNumber(day time.Time, suffix int) string {
	return fmt.Sprintf("CERT-%s-%04d", day.Format("20060102"), suffix%10000)
}
