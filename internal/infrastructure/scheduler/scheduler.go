package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a SKU job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job synchronizes one SKU
type Job struct {
	ID          uuid.UUID
	SKU         string
	Currency    string
	Status      JobStatus
	ProductID   uint
	Error       string
	ErrorClass  integration.ErrorClass
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time

	done chan struct{}
	once sync.Once
}

// NewJob creates a new job instance
func NewJob(sku, currency string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		SKU:        sku,
		Currency:   currency,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
		done:       make(chan struct{}),
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete(productID uint) {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.ProductID = productID
	j.CompletedAt = &now
	j.ErrorClass = integration.ErrorClassNone
}

// Fail marks the job as failed
func (j *Job) Fail(err error) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
	j.ErrorClass = integration.Classify(err)
}

// ShouldRetry reports whether a failed job may run again. Only transport
// failures are retried; every other class fails the same way twice.
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed &&
		j.ErrorClass == integration.ErrorClassTransport &&
		j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

func (j *Job) finish() {
	j.once.Do(func() { close(j.done) })
}

// Done is closed once the job reached a final status
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finished or ctx is done
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JobExecutor runs one job and returns the id of the synchronized product
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) (uint, error)
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	MaxConcurrentJobs int
	QueueSize         int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: 4,
		QueueSize:         1000,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        30 * time.Second,
	}
}

// Scheduler runs SKU jobs on a fixed worker pool
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	defaults := DefaultSchedulerConfig()
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = defaults.MaxConcurrentJobs
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger.Named("scheduler"),
		jobs:     make(chan *Job, config.QueueSize),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Sync scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers. Jobs still queued
// are failed with ErrSchedulerNotRunning.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	close(s.jobs)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}

	dropped := 0
	for job := range s.jobs {
		job.Fail(ErrSchedulerNotRunning)
		job.finish()
		dropped++
	}
	s.logger.Info("Sync scheduler stopped", zap.Int("dropped_jobs", dropped))
	return nil
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("sku", job.SKU),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// SubmitSKUs queues one job per SKU and returns the jobs that were accepted
func (s *Scheduler) SubmitSKUs(skus []string, currency string) ([]*Job, error) {
	jobs := make([]*Job, 0, len(skus))
	for _, sku := range skus {
		job := NewJob(sku, currency, s.config.RetryAttempts)
		if err := s.SubmitJob(job); err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.logger.Debug("Job channel closed", zap.Int("worker_id", workerID))
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob runs a job, retrying transport failures in place
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	defer job.finish()
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("sku", job.SKU),
	)

	for {
		if job.NextRetryAt != nil {
			timer := time.NewTimer(time.Until(*job.NextRetryAt))
			select {
			case <-ctx.Done():
				timer.Stop()
				job.Fail(ctx.Err())
				return
			case <-timer.C:
			}
		}

		job.Start()
		log.Debug("Processing job", zap.Int("attempt", job.RetryCount+1))

		jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		productID, err := s.executor.Execute(jobCtx, job)
		cancel()

		if err == nil {
			job.Complete(productID)
			log.Debug("Job completed", zap.Uint("product_id", productID))
			return
		}

		job.Fail(err)
		if !job.ShouldRetry() {
			log.Warn("Job failed",
				zap.String("error_class", job.ErrorClass.String()),
				zap.Int("attempts", job.RetryCount+1),
				zap.Error(err),
			)
			return
		}
		job.ScheduleRetry(s.config.RetryDelay)
		log.Info("Job scheduled for retry",
			zap.Int("retry_count", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
		)
	}
}
