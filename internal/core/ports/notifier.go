package ports

import (
	"context"
	"time"
)

// StatusNotification describes a certificate status change to tell the requester about.
type StatusNotification struct {
	ControlNumber   string
	CertificateType string
	Status          string
	StatusLabel     string
	Notes           string
	RecipientName   string
	RecipientEmail  string
	RecipientPhone  string
}

// Notifier delivers status-change notifications. Delivery is best effort.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, n StatusNotification) error
}

// ReceiptIssuer signs and verifies the receipts residents use to track a request.
type ReceiptIssuer interface {
	Issue(controlNumber string, issuedAt time.Time) (string, error)
	Verify(receipt string) (controlNumber string, err error)
}
