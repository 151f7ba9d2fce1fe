package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Wikid82/lockward/internal/config"
	"github.com/Wikid82/lockward/internal/logger"
	"github.com/Wikid82/lockward/internal/metrics"
)

// LogPruner deletes audit entries older than a cutoff.
type LogPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditPruner enforces the access-log retention period on a cron schedule.
// A retention of 0 disables it; entries are then kept forever.
type AuditPruner struct {
	store     LogPruner
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
}

func NewAuditPruner(store LogPruner, cfg config.AuditConfig) *AuditPruner {
	schedule := cfg.PruneSchedule
	if schedule == "" {
		schedule = "@daily"
	}
	return &AuditPruner{
		store:     store,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		schedule:  schedule,
		cron:      cron.New(cron.WithLogger(cron.PrintfLogger(logger.Component("cron")))),
		now:       time.Now,
	}
}

// Enabled reports whether a retention period is configured.
func (p *AuditPruner) Enabled() bool { return p.retention > 0 }

// Start runs one prune immediately, then schedules the job.
func (p *AuditPruner) Start() error {
	log := logger.Component("audit")
	if !p.Enabled() {
		log.Info("access log pruning disabled (retention=0)")
		return nil
	}

	if _, err := p.cron.AddFunc(p.schedule, p.run); err != nil {
		return fmt.Errorf("schedule access log pruning %q: %w", p.schedule, err)
	}
	p.run()
	p.cron.Start()

	log.WithField("retention_days", int(p.retention.Hours()/24)).
		WithField("schedule", p.schedule).
		Info("access log pruning scheduled")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (p *AuditPruner) Stop() {
	<-p.cron.Stop().Done()
}

// Prune deletes entries older than the retention period.
func (p *AuditPruner) Prune(ctx context.Context) (int64, error) {
	if !p.Enabled() {
		return 0, nil
	}
	cutoff := p.now().UTC().Add(-p.retention)
	deleted, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	metrics.AddAuditPruned(deleted)
	return deleted, nil
}

func (p *AuditPruner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := p.Prune(ctx)
	log := logger.Component("audit")
	if err != nil {
		log.WithError(err).Error("access log prune failed")
		return
	}
	if deleted > 0 {
		log.WithField("deleted", deleted).Info("pruned expired access log entries")
	}
}
