package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// RunTrigger starts a single reconciliation pass. It is implemented by the
// application-layer batch runner.
type RunTrigger interface {
	RunOnce(ctx context.Context) (*reconcile.RunSummary, error)
}

// RunSchedulerConfig holds configuration for the periodic run scheduler
type RunSchedulerConfig struct {
	// Interval between reconciliation passes
	Interval time.Duration
	// RunTimeout is the maximum time a single pass can run
	RunTimeout time.Duration
}

// DefaultRunSchedulerConfig returns default configuration
func DefaultRunSchedulerConfig() RunSchedulerConfig {
	return RunSchedulerConfig{
		Interval:   15 * time.Minute,
		RunTimeout: 5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *RunSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 5 * time.Minute
	}
	return nil
}

// RunScheduler drives the batch runner on a fixed interval.
type RunScheduler struct {
	config  RunSchedulerConfig
	trigger RunTrigger
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastMu      sync.RWMutex
	lastSummary *reconcile.RunSummary
	lastRunAt   time.Time
}

// NewRunScheduler creates a new periodic run scheduler
func NewRunScheduler(config RunSchedulerConfig, trigger RunTrigger, logger *zap.Logger) (*RunScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RunScheduler{
		config:  config,
		trigger: trigger,
		logger:  logger,
	}, nil
}

// Start begins the interval loop. The first pass fires after one interval,
// not immediately.
func (s *RunScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Run scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("run_timeout", s.config.RunTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *RunScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Run scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Run scheduler stop timed out")
		return ctx.Err()
	}
}

// LastRun returns the most recent summary and when it was produced. The
// summary is nil until the first pass completes.
func (s *RunScheduler) LastRun() (*reconcile.RunSummary, time.Time) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.lastSummary, s.lastRunAt
}

func (s *RunScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *RunScheduler) runPass(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	summary, err := s.trigger.RunOnce(runCtx)
	if err != nil {
		if errors.Is(err, reconcile.ErrRunInProgress) {
			s.logger.Info("Skipping scheduled pass, a run is already in progress")
			return
		}
		s.logger.Error("Scheduled reconciliation pass failed", zap.Error(err))
		return
	}

	s.lastMu.Lock()
	s.lastSummary = summary
	s.lastRunAt = time.Now()
	s.lastMu.Unlock()

	s.logger.Info("Scheduled reconciliation pass completed",
		zap.Int("fetched", summary.Fetched),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
}
