// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobRun records the most recent execution of a job
type JobRun struct {
	Name        string
	Schedule    string
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	Runs        int
	Failures    int
	NextRunAt   time.Time
}

// Config holds scheduler configuration
type Config struct {
	// JobTimeout bounds a single run. Zero means 5 minutes.
	JobTimeout time.Duration
	// Location for schedules, UTC when nil
	Location *time.Location
}

// Scheduler runs registered jobs on standard five-field cron schedules.
// Overlapping runs of the same job are skipped and panics are recovered.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	running bool
	jobs    map[string]*registeredJob
}

type registeredJob struct {
	job     Job
	entryID cron.EntryID
	run     JobRun
}

// New creates a scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 5 * time.Minute
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	cronLogger := &cronLogger{logger: logger.Named("cron")}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
		jobs:    make(map[string]*registeredJob),
	}
}

// Register schedules job on spec, a standard cron expression or descriptor such as "@hourly"
func (s *Scheduler) Register(spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}
	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, name)
	}

	rj := &registeredJob{
		job: job,
		run: JobRun{Name: name, Schedule: spec, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(spec, func() { s.execute(rj) })
	if err != nil {
		return fmt.Errorf("%w: job %s schedule %q: %v", ErrInvalidConfig, name, spec, err)
	}
	rj.entryID = id
	s.jobs[name] = rj

	s.logger.Info("Job registered", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
// In-flight jobs see their context cancelled when ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.cancel()
		s.logger.Warn("Scheduler stop timed out, cancelling running jobs")
		return ctx.Err()
	}
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	rj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(rj)
}

// Status returns a snapshot of every registered job
func (s *Scheduler) Status() []JobRun {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobRun, 0, len(s.jobs))
	for _, rj := range s.jobs {
		run := rj.run
		if entry := s.cron.Entry(rj.entryID); entry.Valid() {
			run.NextRunAt = entry.Next
		}
		out = append(out, run)
	}
	return out
}

func (s *Scheduler) execute(rj *registeredJob) error {
	name := rj.job.Name()
	started := time.Now()

	s.mu.Lock()
	rj.run.Status = JobStatusRunning
	rj.run.StartedAt = &started
	rj.run.Error = ""
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.baseCtx, s.config.JobTimeout)
	defer cancel()

	s.logger.Info("Running job", zap.String("job", name))
	err := rj.job.Run(ctx)
	completed := time.Now()

	s.mu.Lock()
	rj.run.Runs++
	rj.run.CompletedAt = &completed
	if err != nil {
		rj.run.Status = JobStatusFailed
		rj.run.Error = err.Error()
		rj.run.Failures++
	} else {
		rj.run.Status = JobStatusSuccess
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", name),
			zap.Duration("duration", completed.Sub(started)),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("Job completed",
		zap.String("job", name),
		zap.Duration("duration", completed.Sub(started)),
	)
	return nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
