package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/api/metrics"
	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

type actionFunc func(c echo.Context, body []byte, token string) error

// StaffAuthHandler serves the multiplexed POST /api/staff-auth endpoint.
type StaffAuthHandler struct {
	auth      ports.AuthService
	certs     ports.CertificateService
	incidents ports.IncidentService
	audit     ports.AuditService
	log       zerolog.Logger
	actions   map[string]actionFunc
}

func NewStaffAuthHandler(
	auth ports.AuthService,
	certs ports.CertificateService,
	incidents ports.IncidentService,
	audit ports.AuditService,
	log zerolog.Logger,
) *StaffAuthHandler {
	h := &StaffAuthHandler{auth: auth, certs: certs, incidents: incidents, audit: audit, log: log}
	h.actions = map[string]actionFunc{
		"login":                          h.login,
		"logout":                         h.logout,
		"validate":                       h.validate,
		"extend":                         h.extend,
		"get-session":                    h.getSession,
		"get-certificate-requests":       h.listCertificates,
		"get-certificate-request":        h.getCertificate,
		"update-certificate-status":      h.updateStatus,
		"bulk-update-certificate-status": h.bulkUpdateStatus,
		"get-dashboard-stats":            h.dashboardStats,
		"get-incident-reports":           h.listIncidents,
		"get-audit-logs":                 h.listAuditLogs,
		"get-permissions":                h.permissions,
		"change-password":                h.changePassword,
	}
	return h
}

// Handle dispatches a staff action.
//
// @Summary      Staff session and dashboard actions
// @Description  Single endpoint multiplexed by the "action" field. Public actions: login, logout, validate, extend, get-session. Every other action needs a valid "token" and the feature permission of the caller's role.
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        body  body      actionRequest  true  "Action envelope plus action-specific fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/staff-auth [post]
func (h *StaffAuthHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	var env actionRequest
	if err := json.Unmarshal(body, &env); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	fn, ok := h.actions[env.Action]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}

	start := time.Now()
	defer func() {
		metrics.ActionDuration.WithLabelValues(env.Action).Observe(time.Since(start).Seconds())
	}()
	return fn(c, body, env.Token)
}

// bindPayload decodes the action-specific fields and validates them.
func bindPayload(c echo.Context, body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(dst)
}

// --- Session actions ---

func (h *StaffAuthHandler) login(c echo.Context, body []byte, _ string) error {
	var req loginRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, User: res.User, ExpiresAt: res.ExpiresAt})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}

func (h *StaffAuthHandler) logout(c echo.Context, _ []byte, token string) error {
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *StaffAuthHandler) validate(c echo.Context, _ []byte, token string) error {
	res, err := h.auth.Validate(c.Request().Context(), token)
	if err != nil {
		metrics.SessionChecksTotal.WithLabelValues("error").Inc()
		return err
	}
	if !res.Valid {
		metrics.SessionChecksTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusOK, validateResponse{Valid: false})
	}
	metrics.SessionChecksTotal.WithLabelValues("valid").Inc()
	return c.JSON(http.StatusOK, validateResponse{Valid: true, User: res.User})
}

func (h *StaffAuthHandler) extend(c echo.Context, _ []byte, token string) error {
	res, err := h.auth.Extend(c.Request().Context(), token)
	if err != nil {
		return err
	}
	if !res.Success {
		return c.JSON(http.StatusOK, extendResponse{Success: false})
	}
	return c.JSON(http.StatusOK, extendResponse{Success: true, ExpiresAt: &res.ExpiresAt})
}

func (h *StaffAuthHandler) getSession(c echo.Context, _ []byte, token string) error {
	info, err := h.auth.GetSession(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		User:        info.User,
		ExpiresAt:   info.ExpiresAt,
		Permissions: domain.PermittedFeatures(info.User.Role),
	})
}

func (h *StaffAuthHandler) changePassword(c echo.Context, body []byte, token string) error {
	var req changePasswordRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.Request().Context(), token, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *StaffAuthHandler) permissions(c echo.Context, _ []byte, _ string) error {
	staff, err := ctxStaff(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissionsResponse{
		Role:           staff.Role,
		Features:       domain.PermittedFeatures(staff.Role),
		CanAccessAdmin: domain.CanAccessAdminSection(staff.Role),
	})
}

// --- Certificate actions ---

func (h *StaffAuthHandler) listCertificates(c echo.Context, body []byte, _ string) error {
	var req listCertificatesRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	page, err := h.certs.List(c.Request().Context(), ports.ListCertificatesFilter{
		Status:          req.Status,
		CertificateType: req.CertificateType,
		Search:          req.Search,
		Page:            req.Page,
		Limit:           req.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCertificateListResponse(page))
}

func (h *StaffAuthHandler) getCertificate(c echo.Context, body []byte, _ string) error {
	var req getCertificateRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	cert, err := h.certs.Get(c.Request().Context(), req.ControlNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, certificateResponse{Request: cert, NextStatuses: cert.Status.NextStatuses()})
}

func (h *StaffAuthHandler) updateStatus(c echo.Context, body []byte, _ string) error {
	staff, err := ctxStaff(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	err = h.certs.Advance(c.Request().Context(), req.ControlNumber, req.Status, staffIdentity(staff), req.Notes)
	if err != nil {
		metrics.CertificateTransitionErrorsTotal.WithLabelValues(transitionErrorReason(err)).Inc()
		return err
	}
	metrics.CertificateTransitionsTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *StaffAuthHandler) bulkUpdateStatus(c echo.Context, body []byte, _ string) error {
	staff, err := ctxStaff(c)
	if err != nil {
		return err
	}
	var req bulkUpdateStatusRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	results := h.certs.BulkAdvance(c.Request().Context(), req.ControlNumbers, req.Status, staffIdentity(staff), req.Notes)
	resp := bulkUpdateResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
			metrics.CertificateTransitionsTotal.WithLabelValues(req.Status).Inc()
		} else {
			resp.Failed++
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func transitionErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, domain.ErrCertificateNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (h *StaffAuthHandler) dashboardStats(c echo.Context, _ []byte, _ string) error {
	stats, err := h.certs.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	var total int64
	for _, n := range stats {
		total += n
	}
	return c.JSON(http.StatusOK, dashboardStatsResponse{Certificates: stats, Total: total})
}

// --- Incident and audit actions ---

func (h *StaffAuthHandler) listIncidents(c echo.Context, body []byte, _ string) error {
	var req pageRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	page, err := h.incidents.List(c.Request().Context(), req.Page, req.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIncidentListResponse(page))
}

func (h *StaffAuthHandler) listAuditLogs(c echo.Context, body []byte, _ string) error {
	var req auditLogsRequest
	if err := bindPayload(c, body, &req); err != nil {
		return err
	}

	page, err := h.audit.List(c.Request().Context(), ports.AuditFilter{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Action:     req.AuditAction,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuditLogListResponse(page))
}
