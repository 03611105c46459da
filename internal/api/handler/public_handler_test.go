package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

func TestPublicHandler_SubmitCertificate(t *testing.T) {
	certs := &stubCertificateService{
		submitFn: func(ctx context.Context, in ports.SubmitCertificateInput) (*ports.SubmitResult, error) {
			if in.FirstName != "Juan" || in.ContactNumber != "09171234567" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.SubmitResult{
				ControlNumber: "CERT-20240315-0042",
				Status:        domain.StatusPending,
				Priority:      domain.PriorityUrgent,
				RequestedAt:   handlerNow,
				Receipt:       "signed",
			}, nil
		},
	}
	h := NewPublicHandler(certs, &stubIncidentService{})
	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/public/certificate-requests",
		`{"certificate_type":"barangay_clearance","first_name":"Juan","last_name":"Dela Cruz","contact_number":"09171234567","household_code":"H123","purpose":"employment"}`)

	if err := h.SubmitCertificate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec.Body.Bytes())
	if resp["control_number"] != "CERT-20240315-0042" || resp["receipt"] != "signed" || resp["status"] != "pending" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPublicHandler_SubmitCertificate_InvalidPayload(t *testing.T) {
	certs := &stubCertificateService{
		submitFn: func(ctx context.Context, in ports.SubmitCertificateInput) (*ports.SubmitResult, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewPublicHandler(certs, &stubIncidentService{})
	c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/api/public/certificate-requests", `not-json`)

	var he *echo.HTTPError
	if err := h.SubmitCertificate(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestPublicHandler_SubmitCertificate_ValidationErrorPropagates(t *testing.T) {
	certs := &stubCertificateService{
		submitFn: func(ctx context.Context, in ports.SubmitCertificateInput) (*ports.SubmitResult, error) {
			return nil, &domain.ValidationError{Field: "household_code", Message: "is required"}
		},
	}
	h := NewPublicHandler(certs, &stubIncidentService{})
	c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/api/public/certificate-requests", `{"first_name":"Juan"}`)

	if err := h.SubmitCertificate(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublicHandler_TrackCertificate(t *testing.T) {
	processed := handlerNow.Add(2 * time.Hour)
	certs := &stubCertificateService{
		trackFn: func(ctx context.Context, cn, receipt string) (*ports.TrackingView, error) {
			if cn != "CERT-20240315-0042" || receipt != "signed" {
				t.Fatalf("unexpected args: %s %s", cn, receipt)
			}
			return &ports.TrackingView{
				ControlNumber: cn,
				Status:        domain.StatusReadyForPickup,
				RequestedAt:   handlerNow,
				ProcessedDate: &processed,
			}, nil
		},
	}
	h := NewPublicHandler(certs, &stubIncidentService{})

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/public/certificate-requests/CERT-20240315-0042", nil)
	req.Header.Set(receiptHeader, "signed")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("control_number")
	c.SetParamValues("CERT-20240315-0042")

	if err := h.TrackCertificate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec.Body.Bytes())
	if resp["status_label"] != "READY FOR PICKUP" {
		t.Fatalf("unexpected label: %v", resp["status_label"])
	}
}

func TestPublicHandler_TrackCertificate_Forbidden(t *testing.T) {
	certs := &stubCertificateService{
		trackFn: func(ctx context.Context, cn, receipt string) (*ports.TrackingView, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewPublicHandler(certs, &stubIncidentService{})
	c, _ := newJSONContext(newTestEcho(), http.MethodGet, "/api/public/certificate-requests/X", "")

	if err := h.TrackCertificate(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPublicHandler_SubmitIncident(t *testing.T) {
	incidents := &stubIncidentService{
		submitFn: func(ctx context.Context, in ports.SubmitIncidentInput) (string, error) {
			if in.IncidentType != "noise" || in.IncidentDate.IsZero() {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "INC-202403-0042", nil
		},
	}
	h := NewPublicHandler(&stubCertificateService{}, incidents)
	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/public/incident-reports",
		`{"incident_type":"noise","description":"karaoke past midnight","location":"Purok 3","incident_date":"2024-03-14T23:30:00Z","first_name":"Ana","last_name":"Reyes","contact_number":"09181234567","household_code":"H77"}`)

	if err := h.SubmitIncident(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec.Body.Bytes())
	if resp["incident_number"] != "INC-202403-0042" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
