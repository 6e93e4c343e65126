// Package scheduler runs periodic maintenance jobs on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"applycraft-backend/internal/shared/telemetry"
)

// DefaultJobTimeout bounds a single run.
const DefaultJobTimeout = time.Minute

// Job is one named task. An empty Spec disables it.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler wraps robfig/cron. Overlapping runs of the same job are skipped
// and panics are recovered.
type Scheduler struct {
	cron       *cron.Cron
	jobs       []Job
	JobTimeout time.Duration
}

func New(jobs ...Job) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		jobs:       jobs,
		JobTimeout: DefaultJobTimeout,
	}
}

// Start registers every enabled job and starts the cron loop. Jobs see ctx
// so cancelling it aborts in-flight runs.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, job := range s.jobs {
		if job.Spec == "" || job.Run == nil {
			telemetry.Info("scheduler.job_disabled", map[string]any{"job": job.Name})
			continue
		}
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.runJob(ctx, job) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
		}
		telemetry.Info("scheduler.job_registered", map[string]any{"job": job.Name, "spec": job.Spec})
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and returns a context that is done once running
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	timeout := s.JobTimeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(runCtx)
	fields := map[string]any{
		"job":         job.Name,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if err != nil {
		fields["err"] = err
		telemetry.Error("scheduler.job_failed", fields)
		return
	}
	telemetry.Info("scheduler.job_complete", fields)
}

// cronLogger routes cron's own logging through telemetry.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	telemetry.Info("scheduler."+msg, pairs(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["err"] = err
	telemetry.Error("scheduler."+msg, fields)
}

func pairs(kv []interface{}) map[string]any {
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
