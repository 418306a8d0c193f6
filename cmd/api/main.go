// QR Payment SK API server.
//
// @title QR Payment SK API
// @version 1.0
// @description BySquare payment QR code generation for Slovak businesses.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/handlers"
	"github.com/RomanDenysov/qr-payment-sk/internal/api/router"
	"github.com/RomanDenysov/qr-payment-sk/internal/config"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/validator"
	"github.com/RomanDenysov/qr-payment-sk/internal/repository/postgres"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
	"github.com/RomanDenysov/qr-payment-sk/internal/worker"
	"github.com/RomanDenysov/qr-payment-sk/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database ready")

	// Repositories
	users := postgres.NewUserRepository(db)
	generations := postgres.NewGenerationRepository(db)
	templates := postgres.NewTemplateRepository(db)
	purchases := postgres.NewPurchaseRepository(db)
	quotaRepo := postgres.NewQuotaRepository(db)

	// Services
	userService := services.NewUserService(users, cfg.Auth.BCryptCost, log)
	usageService := services.NewUsageService(users, log)
	generationService := services.NewGenerationService(generations, templates, quotaRepo, usageService, cfg.Limits, log)
	purchaseService := services.NewPurchaseService(users, purchases, log)
	templateService := services.NewTemplateService(templates, log)

	val := validator.New()

	h := &router.Handlers{
		Health:   handlers.NewHealthHandler(db, log),
		Auth:     handlers.NewAuthHandler(userService, cfg, log, val),
		Payment:  handlers.NewPaymentHandler(generationService, log, val),
		Usage:    handlers.NewUsageHandler(usageService, log),
		Template: handlers.NewTemplateHandler(templateService, log, val),
		Billing:  handlers.NewBillingHandler(purchaseService, userService, log, val),
	}

	resetWorker, err := worker.NewMonthlyReset(usageService, cfg.Limits.ResetSchedule, log)
	if err != nil {
		return fmt.Errorf("failed to create reset worker: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := resetWorker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reset worker: %w", err)
	}
	defer resetWorker.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.With("addr", srv.Addr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
