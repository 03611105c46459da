package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/barangay-connect/resident-services/api/docs"
	"github.com/barangay-connect/resident-services/internal/api/handler"
	"github.com/barangay-connect/resident-services/internal/api/middleware"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// maxBodySize caps every request body, including the staff endpoint the
// session middleware reads in full.
const maxBodySize = "1M"

// Deps are the services and health checks the router exposes.
type Deps struct {
	Auth         ports.AuthService
	Certificates ports.CertificateService
	Incidents    ports.IncidentService
	Audit        ports.AuditService
	Readiness    *handler.HealthDependenciesHandler
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit(maxBodySize))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("http"))

	// --- Staff actions ---
	staffHandler := handler.NewStaffAuthHandler(deps.Auth, deps.Certificates, deps.Incidents, deps.Audit, deps.Log)
	e.POST("/api/staff-auth", staffHandler.Handle, middleware.Session(deps.Auth), middleware.RequireFeature())

	// --- Resident endpoints (no auth required) ---
	publicHandler := handler.NewPublicHandler(deps.Certificates, deps.Incidents)
	public := e.Group("/api/public")
	public.POST("/certificate-requests", publicHandler.SubmitCertificate)
	public.GET("/certificate-requests/:control_number", publicHandler.TrackCertificate)
	public.POST("/incident-reports", publicHandler.SubmitIncident)

	// --- Health checks ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness  – is the process alive?
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness) // readiness – are dependencies up?
	}

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev = ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID)
			if action, ok := c.Get("action").(string); ok && action != "" {
				ev = ev.Str("action", action)
			}
			ev.Msg("request")
			return nil
		},
	})
}
