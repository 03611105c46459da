package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/staff-auth", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &resp); jerr != nil {
		t.Fatalf("invalid json: %v", jerr)
	}
	return rec.Code, resp
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"inactive", domain.ErrAccountInactive, http.StatusForbidden, CodeAccountInactive},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited},
		{"session", domain.ErrSessionInvalid, http.StatusUnauthorized, CodeSessionInvalid},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"wrapped transition", fmt.Errorf("%w: pending -> released", domain.ErrInvalidTransition), http.StatusUnprocessableEntity, CodeInvalidTransition},
		{"status", domain.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus},
		{"not found", domain.ErrCertificateNotFound, http.StatusNotFound, CodeNotFound},
		{"unknown action", echo.NewHTTPError(http.StatusBadRequest, "unknown action"), http.StatusBadRequest, CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := runErrorHandler(t, tt.err)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestErrorHandler_SessionExpiredMessage(t *testing.T) {
	_, resp := runErrorHandler(t, domain.ErrSessionInvalid)
	if resp.Error != "session expired" {
		t.Fatalf("expected %q, got %q", "session expired", resp.Error)
	}
}

func TestErrorHandler_ValidationErrorCarriesField(t *testing.T) {
	status, resp := runErrorHandler(t, &domain.ValidationError{Field: "contact_number", Message: "must be a valid mobile number"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Code != CodeValidation || resp.Field != "contact_number" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestErrorHandler_WeakPassword(t *testing.T) {
	_, resp := runErrorHandler(t, domain.ErrWeakPassword)
	if resp.Field != "new_password" {
		t.Fatalf("expected field new_password, got %q", resp.Field)
	}
}

func TestErrorHandler_UnexpectedErrorIsNotLeaked(t *testing.T) {
	status, resp := runErrorHandler(t, errors.New("mongo: connection refused to 10.0.0.4"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if resp.Code != CodeInternal || resp.Error != internalMessage {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
