package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/infrastructure/journal"
	"github.com/stockroom/backend/repository"
)

// ConnectionHealth abstracts the connection monitor.
type ConnectionHealth interface {
	IsOnline() bool
}

// ReconcilerConfig controls how frequently the journal is replayed and how
// long unreplayable entries are kept. A zero Retention keeps them forever.
type ReconcilerConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// Reconciler replays journaled audit events into the primary event store.
// Events that failed their initial insert land in the journal; this job
// drains it whenever the database is reachable, closing the gap between the
// asset table and its audit trail.
type Reconciler struct {
	store   *journal.Store
	monitor ConnectionHealth
	events  repository.EventRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ReconcilerConfig
}

func NewReconciler(
	store *journal.Store,
	monitor ConnectionHealth,
	events repository.EventRepository,
	logger *zap.Logger,
	cfg ReconcilerConfig,
) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reconciler{
		store:   store,
		monitor: monitor,
		events:  events,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("journal drain failed", zap.Error(err))
		}
	})

	return r
}

// Start launches the cron scheduler.
func (r *Reconciler) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("event reconciler started")
}

// Stop gracefully stops the scheduler.
func (r *Reconciler) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("event reconciler stopped")
}

// Drain replays one batch of journaled events synchronously. Entries older
// than the retention window are purged first, bounding the journal's size
// through a prolonged outage.
func (r *Reconciler) Drain(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	if r.cfg.Retention > 0 {
		if err := r.store.Cleanup(time.Now().Add(-r.cfg.Retention)); err != nil {
			r.logger.Warn("journal retention cleanup failed", zap.Error(err))
		}
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping journal drain (offline)")
		return nil
	}

	entries, err := r.store.GetBatch(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		event := entry.Event
		if err := r.events.Append(ctx, &event); err != nil {
			r.logger.Error("failed to replay journaled event",
				zap.String("event_id", entry.ID),
				zap.String("asset_id", event.AssetID),
				zap.Error(err))

			entry.Retries++
			if entry.Retries >= r.cfg.MaxRetries {
				r.logger.Warn("dropping journaled event (max retries reached)", zap.String("event_id", entry.ID))
				_ = r.store.Remove(entry)
				continue
			}

			if err := r.store.Remove(entry); err != nil {
				r.logger.Warn("failed to remove journal entry", zap.Error(err))
			}
			if err := r.store.Requeue(entry); err != nil {
				r.logger.Error("failed to requeue journal entry", zap.Error(err))
			}
			continue
		}

		if err := r.store.Remove(entry); err != nil {
			r.logger.Warn("failed to purge replayed journal entry", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of journaled events.
func (r *Reconciler) Size() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}
