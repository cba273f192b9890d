// Package worker runs background ledger maintenance.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/shiftledger/internal/logging"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/robfig/cron/v3"
)

// Sweeper is the subset of service.LedgerService the worker drives.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (*service.SweepResult, error)
}

// RetentionSweeper prunes expired rollups for every user on a cron schedule,
// so users who stop recording still age out of the ledger.
type RetentionSweeper struct {
	ledger   Sweeper
	schedule string
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	lastErr error
	runs    int
}

func NewRetentionSweeper(ledger Sweeper, schedule string, logger *slog.Logger) (*RetentionSweeper, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parsing sweep schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RetentionSweeper{
		ledger:   ledger,
		schedule: schedule,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// RunOnce sweeps immediately.
func (s *RetentionSweeper) RunOnce(ctx context.Context) (*service.SweepResult, error) {
	started := s.now()
	res, err := s.ledger.Sweep(ctx, started)

	s.mu.Lock()
	s.runs++
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.ErrorContext(ctx, "retention sweep failed", logging.Err(err))
		return res, err
	}
	s.logger.InfoContext(ctx, "retention sweep finished",
		"users", res.Users,
		"skipped", res.Skipped,
		"pruned", res.Pruned.Total(),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return res, nil
}

// Run blocks until ctx is done, sweeping on each schedule tick. An overrunning
// sweep causes the next tick to be skipped.
func (s *RetentionSweeper) Run(ctx context.Context) error {
	cl := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(s.schedule, func() { _, _ = s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling retention sweep: %w", err)
	}

	s.logger.InfoContext(ctx, "retention sweeper started", "schedule", s.schedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("retention sweeper stopped")
	return nil
}

// Stats returns how many sweeps have run and the last sweep's error.
func (s *RetentionSweeper) Stats() (runs int, lastErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.lastErr
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{logging.Err(err)}, keysAndValues...)...)
}
