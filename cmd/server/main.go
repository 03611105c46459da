package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/api"
	"github.com/barangay-connect/resident-services/internal/api/handler"
	"github.com/barangay-connect/resident-services/internal/core/ports"
	"github.com/barangay-connect/resident-services/internal/core/service"
	"github.com/barangay-connect/resident-services/internal/infrastructure/config"
	mongodb "github.com/barangay-connect/resident-services/internal/infrastructure/db/mongo"
	redisdb "github.com/barangay-connect/resident-services/internal/infrastructure/db/redis"
	"github.com/barangay-connect/resident-services/internal/infrastructure/notify"
	"github.com/barangay-connect/resident-services/internal/infrastructure/receipt"
	"github.com/barangay-connect/resident-services/pkg/logger"
)

const (
	shutdownTimeout  = 15 * time.Second
	devReceiptSecret = "dev-only-receipt-secret"
	adminFullName    = "System Administrator"
	serviceName      = "resident-services"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongodb.Disconnect(mongoClient, shutdownTimeout) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	staffRepo := mongodb.NewStaffRepository(db)
	sessionRepo := mongodb.NewSessionRepository(db)
	certRepo := mongodb.NewCertificateRepository(db)
	incidentRepo := mongodb.NewIncidentRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	for _, repo := range []indexer{staffRepo, sessionRepo, certRepo, incidentRepo, auditRepo} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	// --- Notifications ---
	var sender ports.Notifier
	if cfg.SMTP.Host != "" {
		sender = notify.NewEmailSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger.Component("email"))
	} else {
		log.Warn().Msg("SMTP_HOST not set, status notifications are only logged")
		sender = notify.NewLogSender(logger.Component("notify"))
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, sender, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)
	defer stopDispatcher(dispatcher, cancelWorkers, log)

	// --- Services ---
	secret := cfg.Receipt.Secret
	if secret == "" {
		log.Warn().Msg("RECEIPT_SECRET not set, using the development secret")
		secret = devReceiptSecret
	}
	receipts := receipt.NewIssuer(secret, cfg.Receipt.TTL)

	auditService := service.NewAuditService(auditRepo, logger.Component("audit"))
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	authService := service.NewAuthService(staffRepo, sessionRepo, limiter, auditService, cfg.Auth.SessionTTL,
		logger.Component("auth"))
	certService := service.NewCertificateService(certRepo, auditService, dispatcher, receipts,
		logger.Component("certificates"))
	incidentService := service.NewIncidentService(incidentRepo, auditService,
		logger.Component("incidents"))

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, adminFullName); err != nil {
		return err
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:         authService,
		Certificates: certService,
		Incidents:    incidentService,
		Audit:        auditService,
		Readiness:    handler.NewHealthDependenciesHandler(db, rdb),
		Log:          log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// stopDispatcher lets the workers deliver what is already queued. Anything
// still pending after shutdownTimeout is dropped and logged by the workers.
func stopDispatcher(d *notify.Dispatcher, cancel context.CancelFunc, log zerolog.Logger) {
	d.Close()
	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		log.Warn().Msg("notification queue not drained in time, dropping the rest")
		cancel()
		<-done
	}
	cancel()
}
