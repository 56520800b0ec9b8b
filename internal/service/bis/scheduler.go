package bis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/service/report"
	"go.uber.org/zap"
)

var errPanicked = errors.New("build refresh panicked")

// DocumentInvalidator drops the cached report page so a sweep reads a fresh one.
type DocumentInvalidator interface {
	Invalidate()
}

// SweepRecorder persists sweep summaries.
type SweepRecorder interface {
	RecordSweep(ctx context.Context, run domain.SweepRun) error
}

// SchedulerConfig configures the refresh sweep.
type SchedulerConfig struct {
	Interval   time.Duration
	RunOnStart bool
	// PerBuildWait spaces out consecutive builds within one sweep.
	PerBuildWait time.Duration
}

// RefreshScheduler periodically clears the cache and refetches every build
// that has a locator, one build at a time.
type RefreshScheduler struct {
	cache     *ResultCache
	locators  *report.LocatorTable
	documents DocumentInvalidator
	recorder  SweepRecorder
	cfg       SchedulerConfig
	logger    *zap.Logger

	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	sweepMu  sync.Mutex
}

// NewRefreshScheduler creates a scheduler. documents and recorder may be nil.
func NewRefreshScheduler(cache *ResultCache, locators *report.LocatorTable, documents DocumentInvalidator, recorder SweepRecorder, cfg SchedulerConfig, logger *zap.Logger) *RefreshScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = constants.SweepConfig.Interval
	}
	return &RefreshScheduler{
		cache:     cache,
		locators:  locators,
		documents: documents,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

func (s *RefreshScheduler) Start(ctx context.Context) {
	s.ticker = time.NewTicker(s.cfg.Interval)

	s.logger.Info("BIS refresh scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("run_on_start", s.cfg.RunOnStart),
		zap.Int("builds", s.locators.Len()),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.cfg.RunOnStart {
			s.Sweep(ctx)
		}

		for {
			select {
			case <-s.ticker.C:
				s.Sweep(ctx)
			case <-s.stopCh:
				s.logger.Info("BIS refresh scheduler stopped")
				return
			case <-ctx.Done():
				s.logger.Info("BIS refresh scheduler context cancelled")
				return
			}
		}
	}()
}

// Stop halts the timer and waits for a running sweep to observe it.
func (s *RefreshScheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
	})
	s.wg.Wait()
}

// Sweep runs one full refresh. Overlapping calls are skipped. A failing build
// is logged and counted; it never aborts the sweep.
func (s *RefreshScheduler) Sweep(ctx context.Context) domain.SweepRun {
	if !s.sweepMu.TryLock() {
		s.logger.Warn("BIS refresh sweep already running, skipped")
		return domain.SweepRun{}
	}
	defer s.sweepMu.Unlock()

	run := domain.SweepRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	s.logger.Info("BIS refresh sweep started", zap.String("run_id", run.ID))

	if s.documents != nil {
		s.documents.Invalidate()
	}
	s.cache.Clear(ctx)

	for i, loc := range s.locators.All() {
		if i > 0 && s.cfg.PerBuildWait > 0 {
			s.wait(ctx)
		}
		if s.stopping(ctx) {
			s.logger.Info("BIS refresh sweep interrupted",
				zap.String("run_id", run.ID),
				zap.Int("done", run.Attempted),
			)
			break
		}

		run.Attempted++
		gear, err := s.fetchOne(ctx, loc.Key)
		switch {
		case err != nil:
			run.Failed++
			run.FailedBuilds = append(run.FailedBuilds, loc.Key.String())
			s.logger.Warn("BIS refresh failed for build",
				zap.String("run_id", run.ID),
				zap.String("build", loc.Key.String()),
				zap.Error(err),
			)
		case len(gear) == 0:
			run.Empty++
			s.logger.Debug("BIS refresh found no gear",
				zap.String("run_id", run.ID),
				zap.String("build", loc.Key.String()),
			)
		default:
			run.Succeeded++
		}
	}

	run.FinishedAt = time.Now()
	s.logger.Info("BIS refresh sweep finished",
		zap.String("run_id", run.ID),
		zap.Int("attempted", run.Attempted),
		zap.Int("succeeded", run.Succeeded),
		zap.Int("empty", run.Empty),
		zap.Int("failed", run.Failed),
		zap.Duration("elapsed", run.Duration()),
	)

	if s.recorder != nil {
		if err := s.recorder.RecordSweep(ctx, run); err != nil {
			s.logger.Warn("Failed to record sweep", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	return run
}

func (s *RefreshScheduler) fetchOne(ctx context.Context, key domain.BuildKey) (gear domain.GearSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("BIS refresh panicked", zap.String("build", key.String()), zap.Any("panic", r))
			gear, err = domain.GearSet{}, errPanicked
		}
	}()
	return s.cache.GetOrFetch(ctx, key, ModeScan)
}

func (s *RefreshScheduler) wait(ctx context.Context) {
	timer := time.NewTimer(s.cfg.PerBuildWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.stopCh:
	case <-ctx.Done():
	}
}

func (s *RefreshScheduler) stopping(ctx context.Context) bool {
	select {
	case <-s.stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
