// Package jobs runs periodic maintenance on cron schedules in the gym's time zone.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Func is one unit of scheduled work.
type Func func(ctx context.Context) error

// Scheduler wraps a cron runner. Overlapping runs of the same job are skipped
// and panics are recovered and logged.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler whose specs are evaluated in loc.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := slogLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Add registers fn under a standard five-field spec. Each run gets its own
// context bounded by timeout.
// PRE: spec parses as a standard cron expression
// POST: fn runs on schedule once Start is called
func (s *Scheduler) Add(name, spec string, timeout time.Duration, fn Func) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		if err := fn(ctx); err != nil {
			slog.Error("job_failed", "job", name, "error", err)
			return
		}
		slog.Debug("job_done", "job", name, "duration_ms", time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", name, spec, err)
	}
	slog.Info("job_scheduled", "job", name, "schedule", spec)
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.Warn("job_stop_timeout")
	}
}

// slogLogger adapts cron's logger interface to slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron_"+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron_"+msg, append(keysAndValues, "error", err)...)
}
