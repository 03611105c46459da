package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

type routerAuth struct {
	ports.AuthService
	users map[string]*domain.StaffUser
}

func (a *routerAuth) Validate(_ context.Context, token string) (*ports.ValidateResult, error) {
	u, ok := a.users[token]
	if !ok {
		return &ports.ValidateResult{Valid: false}, nil
	}
	return &ports.ValidateResult{Valid: true, User: u}, nil
}

type routerCerts struct {
	ports.CertificateService
}

func (routerCerts) Stats(context.Context) (map[domain.CertificateStatus]int64, error) {
	return map[domain.CertificateStatus]int64{domain.StatusPending: 2}, nil
}

type routerAudit struct {
	ports.AuditService
}

func TestRouter(t *testing.T) {
	auth := &routerAuth{users: map[string]*domain.StaffUser{
		"admin-token": {ID: "s1", Role: domain.RoleAdmin, IsActive: true},
		"sk-token":    {ID: "s2", Role: domain.RoleSKChairman, IsActive: true},
	}}
	e := NewRouter(Deps{
		Auth:         auth,
		Certificates: routerCerts{},
		Audit:        routerAudit{},
		Log:          zerolog.Nop(),
	})

	do := func(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		var resp map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return rec, resp
	}

	t.Run("liveness", func(t *testing.T) {
		rec, _ := do(http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		rec, resp := do(http.MethodPost, "/api/staff-auth", `{"action":"get-dashboard-stats","token":"stale"}`)
		if rec.Code != http.StatusUnauthorized || resp["code"] != CodeSessionInvalid || resp["error"] != "session expired" {
			t.Fatalf("unexpected response %d %+v", rec.Code, resp)
		}
	})

	t.Run("feature granted", func(t *testing.T) {
		rec, resp := do(http.MethodPost, "/api/staff-auth", `{"action":"get-dashboard-stats","token":"admin-token"}`)
		if rec.Code != http.StatusOK || resp["total"] != float64(2) {
			t.Fatalf("unexpected response %d %+v", rec.Code, resp)
		}
	})

	t.Run("feature denied", func(t *testing.T) {
		rec, resp := do(http.MethodPost, "/api/staff-auth", `{"action":"get-audit-logs","token":"sk-token"}`)
		if rec.Code != http.StatusForbidden || resp["code"] != CodeForbidden {
			t.Fatalf("unexpected response %d %+v", rec.Code, resp)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		rec, _ := do(http.MethodPost, "/api/staff-auth", `{"action":"format-disk","token":"admin-token"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"action":"get-dashboard-stats","token":"admin-token","pad":"` + strings.Repeat("x", 2<<20) + `"}`
		rec, resp := do(http.MethodPost, "/api/staff-auth", body)
		if rec.Code != http.StatusRequestEntityTooLarge || resp["code"] != CodeValidation {
			t.Fatalf("unexpected response %d %+v", rec.Code, resp)
		}
	})

	t.Run("metrics exposed", func(t *testing.T) {
		rec, _ := do(http.MethodGet, "/metrics", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "barangay_staff_action_duration_seconds") {
			t.Fatalf("expected domain metrics in /metrics output")
		}
	})
}
