package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
	"github.com/hoaops/hoa_ledger_app/internal/platform/config"
)

// jobTimeout bounds each scheduled run so a stuck tenant cannot hold the
// scheduler goroutine forever.
const jobTimeout = 15 * time.Minute

// Scheduler runs the nightly ledger jobs: late-fee assessment and the AR
// tie-out, each across all active tenants.
type Scheduler struct {
	cron     *cron.Cron
	services *portssvc.ServiceContainer
	logger   *slog.Logger
}

// NewScheduler creates a scheduler with jobs registered from the configured
// cron specs. Cron runs in UTC, matching entry and invoice dates.
func NewScheduler(cfg *config.Config, services *portssvc.ServiceContainer, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		services: services,
		logger:   logger.With(slog.String("component", "scheduler")),
	}

	if _, err := s.cron.AddFunc(cfg.LateFeeCronSpec, s.runLateFees); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.ReconcileCronSpec, s.reconcileAR); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// runLateFees applies each tenant's late-fee policy across its overdue
// invoices. A failing tenant is logged and never blocks the others.
func (s *Scheduler) runLateFees() {
	logger := s.logger.With(slog.String("job", "late_fees"))
	ctx, cancel := context.WithTimeout(middleware.WithLogger(context.Background(), logger), jobTimeout)
	defer cancel()

	asOf := time.Now().UTC()
	tenants, err := s.services.Tenant.ListTenants(ctx)
	if err != nil {
		logger.Error("Failed to list tenants for late-fee run", slog.String("error", err.Error()))
		return
	}

	for _, tenant := range tenants {
		summary, err := s.services.Invoice.RunLateFees(ctx, tenant.TenantID, asOf, false, "scheduler")
		if err != nil {
			logger.Error("Late-fee run failed for tenant",
				slog.String("tenant_id", tenant.TenantID),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Late-fee run completed for tenant",
			slog.String("tenant_id", tenant.TenantID),
			slog.Int("applied", summary.Applied),
			slog.Int("skipped", summary.Skipped),
			slog.Int("failed", summary.Failed))
	}
}

// reconcileAR ties out each tenant's open invoices against its AR control
// account. A nonzero variance is logged inside the reporting service; here
// we only record the outcome.
func (s *Scheduler) reconcileAR() {
	logger := s.logger.With(slog.String("job", "ar_reconciliation"))
	ctx, cancel := context.WithTimeout(middleware.WithLogger(context.Background(), logger), jobTimeout)
	defer cancel()

	asOf := time.Now().UTC()
	tenants, err := s.services.Tenant.ListTenants(ctx)
	if err != nil {
		logger.Error("Failed to list tenants for AR reconciliation", slog.String("error", err.Error()))
		return
	}

	for _, tenant := range tenants {
		result, err := s.services.Reporting.ReconcileAR(ctx, tenant.TenantID, asOf)
		if err != nil {
			logger.Error("AR reconciliation failed for tenant",
				slog.String("tenant_id", tenant.TenantID),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("AR reconciliation completed for tenant",
			slog.String("tenant_id", tenant.TenantID),
			slog.Bool("balanced", result.Balanced),
			slog.String("variance", result.Variance.String()))
	}
}
