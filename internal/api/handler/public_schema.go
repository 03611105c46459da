package handler

import (
	"time"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// receiptHeader carries the signed receipt a resident received on submission.
const receiptHeader = "X-Receipt"

type submitCertificateResponse struct {
	ControlNumber string                   `json:"control_number" example:"CERT-20240315-4821"`
	Status        domain.CertificateStatus `json:"status"         example:"pending"`
	RequestedAt   time.Time                `json:"requested_at"`
	Receipt       string                   `json:"receipt"`
}

type trackingResponse struct {
	ControlNumber   string                   `json:"control_number"`
	CertificateType string                   `json:"certificate_type"`
	Status          domain.CertificateStatus `json:"status"`
	StatusLabel     string                   `json:"status_label"`
	RequestedAt     time.Time                `json:"requested_at"`
	ProcessedDate   *time.Time               `json:"processed_date,omitempty"`
	Remarks         string                   `json:"remarks,omitempty"`
}

type submitIncidentResponse struct {
	IncidentNumber string `json:"incident_number" example:"INC-202403-0042"`
}
