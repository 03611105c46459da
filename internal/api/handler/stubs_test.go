package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	validateFn       func(ctx context.Context, token string) (*ports.ValidateResult, error)
	extendFn         func(ctx context.Context, token string) (*ports.ExtendResult, error)
	logoutFn         func(ctx context.Context, token string) error
	getSessionFn     func(ctx context.Context, token string) (*ports.SessionInfo, error)
	changePasswordFn func(ctx context.Context, token, current, next string) error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Validate(ctx context.Context, token string) (*ports.ValidateResult, error) {
	return s.validateFn(ctx, token)
}

func (s *stubAuthService) Extend(ctx context.Context, token string) (*ports.ExtendResult, error) {
	return s.extendFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) GetSession(ctx context.Context, token string) (*ports.SessionInfo, error) {
	return s.getSessionFn(ctx, token)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, token, current, next string) error {
	return s.changePasswordFn(ctx, token, current, next)
}

// stubCertificateService embeds the interface so tests only set what they call.
type stubCertificateService struct {
	ports.CertificateService
	submitFn      func(ctx context.Context, in ports.SubmitCertificateInput) (*ports.SubmitResult, error)
	advanceFn     func(ctx context.Context, cn, status string, staff ports.StaffIdentity, notes string) error
	bulkAdvanceFn func(ctx context.Context, cns []string, status string, staff ports.StaffIdentity, notes string) []ports.BulkAdvanceResult
	getFn         func(ctx context.Context, cn string) (*domain.CertificateRequest, error)
	listFn        func(ctx context.Context, f ports.ListCertificatesFilter) (*ports.CertificatePage, error)
	statsFn       func(ctx context.Context) (map[domain.CertificateStatus]int64, error)
	trackFn       func(ctx context.Context, cn, receipt string) (*ports.TrackingView, error)
}

func (s *stubCertificateService) Submit(ctx context.Context, in ports.SubmitCertificateInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, in)
}

func (s *stubCertificateService) Advance(ctx context.Context, cn, status string, staff ports.StaffIdentity, notes string) error {
	return s.advanceFn(ctx, cn, status, staff, notes)
}

func (s *stubCertificateService) BulkAdvance(ctx context.Context, cns []string, status string, staff ports.StaffIdentity, notes string) []ports.BulkAdvanceResult {
	return s.bulkAdvanceFn(ctx, cns, status, staff, notes)
}

func (s *stubCertificateService) Get(ctx context.Context, cn string) (*domain.CertificateRequest, error) {
	return s.getFn(ctx, cn)
}

func (s *stubCertificateService) List(ctx context.Context, f ports.ListCertificatesFilter) (*ports.CertificatePage, error) {
	return s.listFn(ctx, f)
}

func (s *stubCertificateService) Stats(ctx context.Context) (map[domain.CertificateStatus]int64, error) {
	return s.statsFn(ctx)
}

func (s *stubCertificateService) Track(ctx context.Context, cn, receipt string) (*ports.TrackingView, error) {
	return s.trackFn(ctx, cn, receipt)
}

type stubIncidentService struct {
	submitFn func(ctx context.Context, in ports.SubmitIncidentInput) (string, error)
	listFn   func(ctx context.Context, page, limit int) (*ports.IncidentPage, error)
}

func (s *stubIncidentService) Submit(ctx context.Context, in ports.SubmitIncidentInput) (string, error) {
	return s.submitFn(ctx, in)
}

func (s *stubIncidentService) List(ctx context.Context, page, limit int) (*ports.IncidentPage, error) {
	return s.listFn(ctx, page, limit)
}

type stubAuditService struct {
	listFn func(ctx context.Context, f ports.AuditFilter) (*ports.AuditPage, error)
}

func (s *stubAuditService) Record(context.Context, domain.AuditLogEntry) {}

func (s *stubAuditService) List(ctx context.Context, f ports.AuditFilter) (*ports.AuditPage, error) {
	return s.listFn(ctx, f)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
