package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context)
}

// Schedule binds a job to a cron expression with seconds.
type Schedule struct {
	Spec string
	Job  Job
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	cron      *cron.Cron
	schedules []Schedule
	logger    *slog.Logger
}

// NewJobManager creates a job manager for the given schedules. A schedule
// with an empty spec is disabled.
func NewJobManager(logger *slog.Logger, schedules ...Schedule) *JobManager {
	return &JobManager{
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedules: schedules,
		logger:    logger.With("component", "job_manager"),
	}
}

// StartAll registers every schedule and starts the scheduler.
// Returns an error if any spec fails to parse; nothing runs in that case.
func (jm *JobManager) StartAll() error {
	for _, s := range jm.schedules {
		if s.Spec == "" {
			jm.logger.Info("Job disabled", "job", s.Job.Name())
			continue
		}
		job := s.Job
		if _, err := jm.cron.AddFunc(s.Spec, func() { job.Run(context.Background()) }); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.Name(), err)
		}
		jm.logger.Info("Job scheduled", "job", job.Name(), "spec", s.Spec)
	}

	jm.cron.Start()
	return nil
}

// StopAll stops the scheduler and waits for running jobs to finish.
func (jm *JobManager) StopAll() {
	<-jm.cron.Stop().Done()
	jm.logger.Info("Jobs stopped")
}
