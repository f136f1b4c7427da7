package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
	"github.com/tech4humanity/t4h-core/internal/metrics"
)

// Sweep names. Each one is also the suffix of its lock name.
const (
	SweepResearchLinks = "research-links"
	SweepExpansion     = "expansion"
	SweepAlignment     = "alignment"
)

const (
	// sweepLockTTL bounds how long a crashed instance can block a sweep
	sweepLockTTL = 30 * time.Minute

	// DefaultSweepDelay is the pause between two records of a sweep
	DefaultSweepDelay = 1500 * time.Millisecond
)

// LockName returns the distributed lock name guarding a sweep
func LockName(sweep string) string {
	return "sweep:" + sweep
}

// sweepRunner runs a per-record function over a list of IDs, one at a time,
// under a distributed lock and with a fixed delay between records.
type sweepRunner struct {
	lock    driven.DistributedLock
	delay   time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func newSweepRunner(lock driven.DistributedLock, delay time.Duration, m *metrics.Metrics, logger *slog.Logger) *sweepRunner {
	if delay < 0 {
		delay = 0
	}
	return &sweepRunner{lock: lock, delay: delay, metrics: m, logger: logger}
}

// recordFunc processes one record and reports how many links it created
type recordFunc func(ctx context.Context, id string) (int, error)

// run lists the IDs and processes each with fn. A failing record is recorded
// and the sweep moves on. Only listing failures, lock contention and
// cancellation stop the sweep early.
func (r *sweepRunner) run(ctx context.Context, name string, list func(ctx context.Context) ([]string, error), fn recordFunc) (*domain.SweepResult, error) {
	startTime := time.Now()

	if r.lock != nil {
		lockName := LockName(name)
		acquired, err := r.lock.Acquire(ctx, lockName, sweepLockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrSweepInProgress
		}
		defer func() {
			if err := r.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
				r.logger.Warn("failed to release sweep lock", "sweep", name, "error", err)
			}
		}()
	}

	ids, err := list(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Info("starting sweep", "sweep", name, "records", len(ids))

	limit := rate.Inf
	if r.delay > 0 {
		limit = rate.Every(r.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := &domain.SweepResult{Name: name}
	for _, id := range ids {
		if err := limiter.Wait(ctx); err != nil {
			result.Duration = time.Since(startTime).Seconds()
			return result, fmt.Errorf("sweep interrupted: %w", err)
		}

		created, err := fn(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					result.Duration = time.Since(startTime).Seconds()
					return result, fmt.Errorf("sweep interrupted: %w", ctx.Err())
				}
			}
			level := slog.LevelError
			if domain.IsGenerationFailure(err) {
				level = slog.LevelWarn
			}
			r.logger.Log(ctx, level, "sweep record failed", "sweep", name, "record_id", id, "error", err)
			result.RecordFailure(id, err)
			r.metrics.RecordSweepRecord(name, false)
		} else {
			result.RecordSuccess(created)
			r.metrics.RecordSweepRecord(name, true)
		}

		if r.lock != nil {
			if err := r.lock.Extend(ctx, LockName(name), sweepLockTTL); err != nil {
				r.logger.Debug("failed to extend sweep lock", "sweep", name, "error", err)
			}
		}
	}

	result.Duration = time.Since(startTime).Seconds()
	r.logger.Info("sweep completed",
		"sweep", name,
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"count_created", result.CountCreated,
		"duration_seconds", result.Duration,
	)

	return result, nil
}
