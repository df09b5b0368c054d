// Package scheduler runs background jobs on a small worker pool with retries.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is one run of a named executor
type Job struct {
	ID          uuid.UUID
	Name        string
	Status      JobStatus
	Error       string
	SubmittedAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a pending job
func NewJob(name string, maxRetries int) *Job {
	return &Job{
		ID:          uuid.New(),
		Name:        name,
		Status:      JobStatusPending,
		SubmittedAt: time.Now(),
		MaxRetries:  maxRetries,
	}
}

func (j *Job) start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) complete(now time.Time) {
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

func (j *Job) fail(now time.Time, err error) {
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
}

// ShouldRetry returns true if the job failed and has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

func (j *Job) scheduleRetry(now time.Time, delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	next := now.Add(delay)
	j.NextRetryAt = &next
}

// JobExecutor does the work of a job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// ExecutorFunc adapts a function to JobExecutor
type ExecutorFunc func(ctx context.Context, job *Job) error

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// Config holds scheduler configuration
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     64,
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    30 * time.Second,
	}
}

// Scheduler dispatches submitted jobs to the executor registered under the job name
type Scheduler struct {
	config    Config
	logger    *zap.Logger
	executors map[string]JobExecutor
	onDone    func(job *Job)

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a stopped scheduler
func NewScheduler(config Config, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	return &Scheduler{
		config:    config,
		logger:    logger,
		executors: make(map[string]JobExecutor),
		jobs:      make(chan *Job, config.QueueSize),
	}
}

// Register binds an executor to a job name. Call before Start.
func (s *Scheduler) Register(name string, executor JobExecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors[name] = executor
}

// OnJobDone installs a callback invoked after each final success or failure
func (s *Scheduler) OnJobDone(fn func(job *Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = fn
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Job scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a new run of the named job
func (s *Scheduler) Submit(name string) (*Job, error) {
	job := NewJob(name, s.config.RetryAttempts)
	if err := s.SubmitJob(job); err != nil {
		return nil, err
	}
	return job, nil
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	if _, ok := s.executors[job.Name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Name)
	}
	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.process(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, job *Job, workerID int) {
	if job.NextRetryAt != nil {
		wait := time.Until(*job.NextRetryAt)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}

	s.mu.Lock()
	executor := s.executors[job.Name]
	onDone := s.onDone
	s.mu.Unlock()

	job.start(time.Now())
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job", job.Name),
		zap.String("job_id", job.ID.String()),
		zap.Int("attempt", job.RetryCount+1),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.run(jobCtx, executor, job)
	cancel()

	if err == nil {
		job.complete(time.Now())
		log.Debug("Job completed")
		if onDone != nil {
			onDone(job)
		}
		return
	}

	job.fail(time.Now(), err)
	if ctx.Err() == nil && job.ShouldRetry() {
		job.scheduleRetry(time.Now(), s.config.RetryDelay)
		log.Warn("Job failed, retrying", zap.Error(err), zap.Duration("delay", s.config.RetryDelay))
		select {
		case s.jobs <- job:
			return
		default:
			job.fail(time.Now(), ErrJobQueueFull)
		}
	}
	log.Error("Job failed", zap.Error(err))
	if onDone != nil {
		onDone(job)
	}
}

func (s *Scheduler) run(ctx context.Context, executor JobExecutor, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return executor.Execute(ctx, job)
}
