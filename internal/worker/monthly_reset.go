// Package worker runs the scheduled monthly usage rollover.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
)

// MonthlyReset drives the usage rollover on a cron schedule. The reset
// itself only touches users whose reset date has passed, so a missed
// run is repaired by the startup catch-up and reruns are harmless.
type MonthlyReset struct {
	usage    *services.UsageService
	schedule string
	logger   *logger.Logger

	scheduler *cron.Cron
}

// NewMonthlyReset creates a new monthly reset worker
func NewMonthlyReset(usage *services.UsageService, schedule string, log *logger.Logger) (*MonthlyReset, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid reset schedule %q: %w", schedule, err)
	}

	return &MonthlyReset{
		usage:    usage,
		schedule: schedule,
		logger:   log,
	}, nil
}

// Start runs the catch-up pass and schedules future rollovers
func (w *MonthlyReset) Start(ctx context.Context) error {
	// Catch up on resets missed while the process was down
	w.run(ctx)

	w.scheduler = cron.New()
	_, err := w.scheduler.AddFunc(w.schedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		w.run(runCtx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule monthly reset: %w", err)
	}

	w.scheduler.Start()
	w.logger.With("schedule", w.schedule).Info("Monthly reset worker started")
	return nil
}

// Stop stops the scheduler and waits for a running reset to finish
func (w *MonthlyReset) Stop() {
	if w.scheduler == nil {
		return
	}
	<-w.scheduler.Stop().Done()
	w.logger.Info("Monthly reset worker stopped")
}

func (w *MonthlyReset) run(ctx context.Context) {
	count, err := w.usage.ResetAllMonthlyUsage(ctx)
	if err != nil {
		w.logger.ErrorWithErr(err, "Monthly reset run failed")
		return
	}
	if count > 0 {
		w.logger.With("users", count).Info("Monthly reset applied")
	}
}
