package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// RunnerConfig holds batch runner settings.
type RunnerConfig struct {
	// PageSize is the fixed size of the single upstream page fetched per run
	PageSize int
	// LockTTL bounds how long the run guard is held if a run dies mid-way
	LockTTL time.Duration
}

// Validate applies defaults for unset fields.
func (c *RunnerConfig) Validate() error {
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Minute
	}
	return nil
}

// Runner drives one reconciliation pass: fetch a page of upstream orders and
// feed each to the engine, isolating per-order failures so one bad order
// never aborts its siblings. Only the fetch itself is a whole-run failure.
type Runner struct {
	config  RunnerConfig
	source  reconcile.OrderSource
	engine  *Engine
	lock    reconcile.RunLock
	records reconcile.OrderSyncRecordRepository
	logger  *zap.Logger
}

// NewRunner creates a batch runner. The records repository is optional; a
// nil repository disables run-history persistence.
func NewRunner(config RunnerConfig, source reconcile.OrderSource, engine *Engine, lock reconcile.RunLock, records reconcile.OrderSyncRecordRepository, logger *zap.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		config:  config,
		source:  source,
		engine:  engine,
		lock:    lock,
		records: records,
		logger:  logger.Named("runner"),
	}, nil
}

// RunOnce performs a single reconciliation pass and returns its summary.
// The run guard closes the check-then-create race between overlapping runs:
// a second caller gets ErrRunInProgress instead of a duplicate pass.
func (r *Runner) RunOnce(ctx context.Context) (*reconcile.RunSummary, error) {
	runID := uuid.New()
	logger := r.logger.With(zap.String("run_id", runID.String()))

	acquired, err := r.lock.Acquire(ctx, r.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring run guard: %w", err)
	}
	if !acquired {
		logger.Warn("run guard held, skipping pass")
		return nil, reconcile.ErrRunInProgress
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release run guard", zap.Error(err))
		}
	}()

	logger.Info("starting reconciliation pass", zap.Int("page_size", r.config.PageSize))

	orders, err := r.source.FetchOrders(ctx, r.config.PageSize)
	if err != nil {
		logger.Error("order fetch failed, aborting run", zap.Error(err))
		return nil, fmt.Errorf("fetching upstream orders: %w", err)
	}

	summary := &reconcile.RunSummary{Fetched: len(orders)}
	logger.Info("fetched upstream orders", zap.Int("count", len(orders)))

	for i := range orders {
		outcome := r.syncIsolated(ctx, &orders[i])
		summary.Record(outcome)
		r.persistRecord(ctx, logger, runID, outcome)
	}

	logger.Info("reconciliation pass finished",
		zap.Int("fetched", summary.Fetched),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

// syncIsolated runs the engine on one order, converting a panic into a
// failed outcome so sibling orders keep processing.
func (r *Runner) syncIsolated(ctx context.Context, order *reconcile.StoreOrder) (outcome reconcile.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("unexpected panic while processing order",
				zap.String("origin_tag", order.OriginTag()),
				zap.Any("panic", rec))
			outcome = reconcile.Failed(order, reconcile.ReasonUnexpected)
		}
	}()
	return r.engine.SyncOne(ctx, order)
}

// persistRecord writes the outcome to run history, best effort.
func (r *Runner) persistRecord(ctx context.Context, logger *zap.Logger, runID uuid.UUID, outcome reconcile.Outcome) {
	if r.records == nil {
		return
	}
	record := reconcile.NewOrderSyncRecord(runID, outcome)
	if err := r.records.Save(ctx, record); err != nil {
		logger.Warn("failed to persist sync record",
			zap.String("origin_tag", outcome.OriginTag),
			zap.Error(err))
	}
}
