package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. Returned errors are logged; the job is
// not retried until its next tick.
type Job func(ctx context.Context) error

// Scheduler runs jobs at fixed intervals. A job still running when its next
// tick arrives is skipped for that tick and panics are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	entries []cron.EntryID

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped Scheduler. logger may be nil.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every registers job to run every interval, starting one interval after
// Start. Intervals below one second are rejected.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) error {
	if interval < time.Second {
		return fmt.Errorf("schedule %s: interval %s is below one second", name, interval)
	}

	spec := "@every " + interval.String()
	id, err := s.cron.AddFunc(spec, func() {
		started := time.Now()
		if err := job(s.ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err, "duration", time.Since(started))
			return
		}
		s.logger.Debug("scheduled job finished", "job", name, "duration", time.Since(started))
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.mu.Lock()
	s.entries = append(s.entries, id)
	s.mu.Unlock()

	s.logger.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts future ticks and cancels the context passed to running jobs.
// The returned context is done once running jobs have returned.
func (s *Scheduler) Stop() context.Context {
	done := s.cron.Stop()
	s.cancel()
	return done
}

// Next returns the earliest upcoming run time, or the zero time when the
// scheduler is stopped or has no jobs.
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if e.Next.IsZero() {
			continue
		}
		if next.IsZero() || e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
