// Package sweeper runs the bulk sweeps on cron schedules in worker mode.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// DefaultSchedule runs the research-links sweep nightly at 03:00 UTC
const DefaultSchedule = "0 3 * * *"

// SweepFunc runs one sweep to completion
type SweepFunc func(ctx context.Context) (*domain.SweepResult, error)

// Job is a named sweep bound to a cron expression
type Job struct {
	Name     string
	Schedule string // Standard 5-field cron expression
	Run      SweepFunc
}

// Config holds configuration for the sweeper.
type Config struct {
	Jobs   []Job
	Logger *slog.Logger

	// Location for schedule evaluation. Defaults to UTC.
	Location *time.Location
}

// RunStatus records the outcome of the most recent run of a job
type RunStatus struct {
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration"`
	Result    *domain.SweepResult `json:"result,omitempty"`
	Skipped   bool                `json:"skipped,omitempty"` // Lock held elsewhere
	Error     string              `json:"error,omitempty"`
}

// Sweeper triggers sweeps on their schedules. Overlapping runs of the same
// job inside this process are skipped; the distributed lock inside each
// sweep covers other instances.
type Sweeper struct {
	cron   *cron.Cron
	jobs   map[string]Job
	order  []string
	logger *slog.Logger

	mu       sync.RWMutex
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	entries  map[string]cron.EntryID
	lastRuns map[string]RunStatus
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New validates every job schedule and builds a stopped sweeper.
func New(cfg Config) (*Sweeper, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Sweeper{
		jobs:     make(map[string]Job, len(cfg.Jobs)),
		logger:   logger,
		entries:  make(map[string]cron.EntryID, len(cfg.Jobs)),
		lastRuns: make(map[string]RunStatus),
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
	)

	for _, job := range cfg.Jobs {
		if job.Name == "" || job.Run == nil {
			return nil, fmt.Errorf("%w: sweep job needs a name and a run function", domain.ErrInvalidInput)
		}
		if _, dup := s.jobs[job.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate sweep job %q", domain.ErrInvalidInput, job.Name)
		}
		if _, err := parser.Parse(job.Schedule); err != nil {
			return nil, fmt.Errorf("%w: schedule %q for %s: %v", domain.ErrInvalidInput, job.Schedule, job.Name, err)
		}

		id, err := s.cron.AddFunc(job.Schedule, func() { s.execute(job) })
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", job.Name, err)
		}
		s.jobs[job.Name] = job
		s.order = append(s.order, job.Name)
		s.entries[job.Name] = id
	}

	return s, nil
}

// Start begins evaluating schedules. Runs use a context derived from ctx.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("sweeper started", "jobs", len(s.jobs))
}

// Stop cancels in-flight sweeps and waits for them to return.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("sweeper stopped")
}

// Jobs returns the job names in configuration order
func (s *Sweeper) Jobs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// RunNow runs a job immediately in the caller's goroutine.
func (s *Sweeper) RunNow(ctx context.Context, name string) (RunStatus, error) {
	job, ok := s.jobs[name]
	if !ok {
		return RunStatus{}, fmt.Errorf("%w: sweep job %q", domain.ErrNotFound, name)
	}
	return s.run(ctx, job), nil
}

func (s *Sweeper) execute(job Job) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.run(ctx, job)
}

func (s *Sweeper) run(ctx context.Context, job Job) RunStatus {
	logger := s.logger.With("sweep", job.Name)
	status := RunStatus{StartedAt: time.Now()}

	logger.Info("scheduled sweep starting")
	result, err := job.Run(ctx)
	status.Duration = time.Since(status.StartedAt)
	status.Result = result

	switch {
	case errors.Is(err, domain.ErrSweepInProgress):
		status.Skipped = true
		logger.Info("scheduled sweep skipped, lock held by another instance")
	case err != nil:
		status.Error = err.Error()
		logger.Error("scheduled sweep failed", "duration", status.Duration, "error", err)
	case result != nil:
		logger.Info("scheduled sweep completed",
			"duration", status.Duration,
			"processed", result.Processed,
			"failed", result.Failed,
		)
	}

	s.mu.Lock()
	s.lastRuns[job.Name] = status
	s.mu.Unlock()
	return status
}

// Health reports the sweeper state.
type Health struct {
	Running  bool                 `json:"running"`
	NextRuns map[string]time.Time `json:"next_runs"`
	LastRuns map[string]RunStatus `json:"last_runs"`
}

// Health returns the schedule and the last outcome of every job.
func (s *Sweeper) Health() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := Health{
		Running:  s.running,
		NextRuns: make(map[string]time.Time, len(s.entries)),
		LastRuns: make(map[string]RunStatus, len(s.lastRuns)),
	}
	for name, id := range s.entries {
		h.NextRuns[name] = s.cron.Entry(id).Next
	}
	for name, status := range s.lastRuns {
		h.LastRuns[name] = status
	}
	return h
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
