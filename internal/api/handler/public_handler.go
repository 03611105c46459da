package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barangay-connect/resident-services/internal/api/metrics"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// PublicHandler serves the unauthenticated resident endpoints.
type PublicHandler struct {
	certs     ports.CertificateService
	incidents ports.IncidentService
}

func NewPublicHandler(certs ports.CertificateService, incidents ports.IncidentService) *PublicHandler {
	return &PublicHandler{certs: certs, incidents: incidents}
}

// SubmitCertificate godoc
//
// @Summary      Submit a certificate request
// @Description  Stores a resident's request and returns its control number together with a signed receipt for status lookups.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        body  body      ports.SubmitCertificateInput  true  "Certificate request"
// @Success      201   {object}  submitCertificateResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/public/certificate-requests [post]
func (h *PublicHandler) SubmitCertificate(c echo.Context) error {
	var in ports.SubmitCertificateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.certs.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.CertificatesSubmittedTotal.WithLabelValues(res.Priority).Inc()

	return c.JSON(http.StatusCreated, submitCertificateResponse{
		ControlNumber: res.ControlNumber,
		Status:        res.Status,
		RequestedAt:   res.RequestedAt,
		Receipt:       res.Receipt,
	})
}

// TrackCertificate godoc
//
// @Summary      Track a certificate request
// @Tags         public
// @Produce      json
// @Param        control_number  path      string  true  "Control number"
// @Param        X-Receipt       header    string  true  "Receipt returned on submission"
// @Success      200             {object}  trackingResponse
// @Failure      403             {object}  errorResponse
// @Failure      404             {object}  errorResponse
// @Router       /api/public/certificate-requests/{control_number} [get]
func (h *PublicHandler) TrackCertificate(c echo.Context) error {
	view, err := h.certs.Track(c.Request().Context(), c.Param("control_number"), c.Request().Header.Get(receiptHeader))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrackingResponse(view))
}

// SubmitIncident godoc
//
// @Summary      Report an incident
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        body  body      ports.SubmitIncidentInput  true  "Incident report"
// @Success      201   {object}  submitIncidentResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/public/incident-reports [post]
func (h *PublicHandler) SubmitIncident(c echo.Context) error {
	var in ports.SubmitIncidentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	number, err := h.incidents.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, submitIncidentResponse{IncidentNumber: number})
}
