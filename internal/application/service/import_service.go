// Package service holds the application services that coordinate domain
// logic, storage and external tools behind the HTTP and CLI surfaces.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
	"github.com/yts/receipt-splitter-backend/internal/importer"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/storage"
)

// ImportStatus represents the current state of an import job.
type ImportStatus string

const (
	StatusPending   ImportStatus = "pending"
	StatusRunning   ImportStatus = "running"
	StatusCompleted ImportStatus = "completed"
	StatusFailed    ImportStatus = "failed"
	StatusCancelled ImportStatus = "cancelled"
)

// Job staleness thresholds
const (
	// DefaultJobStaleThreshold is how long a job can go without progress
	// updates before being considered stale. Recognition of a single receipt
	// should never take this long.
	DefaultJobStaleThreshold = 5 * time.Minute

	// DefaultJobMaxDuration is the maximum time a job can run before being
	// forcefully marked as failed. This prevents runaway jobs.
	DefaultJobMaxDuration = 15 * time.Minute

	// DefaultMaxActiveImports caps how many imports may run concurrently.
	DefaultMaxActiveImports = 2

	// completedJobRetention is how long finished jobs stay queryable before
	// background cleanup drops them.
	completedJobRetention = 1 * time.Hour
)

// ImportRequest holds parameters for starting an import.
type ImportRequest struct {
	SourceName string // original file name, informational only
	Data       []byte // raw image or PDF payload
}

// ImportProgress holds real-time progress information.
type ImportProgress struct {
	CurrentPhase string // "pending", "recognizing", "completed", "failed", "cancelled"
	LastUpdate   time.Time
}

// ImportJob represents a running or completed import job.
type ImportJob struct {
	ID          string
	SourceName  string
	SourceType  string
	SourceSize  int64
	Status      ImportStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Progress    ImportProgress
	Items       []receipt.LineItem // extracted candidates, set on completion
	Notice      string             // user-visible note, e.g. nothing recognized
	Error       error

	cancelFunc context.CancelFunc
}

// ItemExtractor turns an uploaded receipt payload into candidate line items.
type ItemExtractor interface {
	Extract(ctx context.Context, data []byte) ([]receipt.LineItem, error)
}

// ImportService manages receipt import jobs.
type ImportService struct {
	storage   storage.Store
	extractor ItemExtractor
	logger    *slog.Logger
	maxActive int

	// Job management
	jobs      map[string]*ImportJob
	jobsMutex sync.RWMutex

	// Background cleanup
	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// NewImportService creates a new import service.
func NewImportService(store storage.Store, extractor ItemExtractor, logger *slog.Logger, maxActive int) *ImportService {
	if maxActive <= 0 {
		maxActive = DefaultMaxActiveImports
	}
	return &ImportService{
		storage:   store,
		extractor: extractor,
		logger:    logger,
		maxActive: maxActive,
		jobs:      make(map[string]*ImportJob),
	}
}

// StartImport starts a new import job asynchronously.
// Note: The passed context is NOT used as the parent for the background job.
// Background import jobs use context.Background() to avoid being cancelled
// when the HTTP request completes. Use CancelImport() to cancel a running job.
func (s *ImportService) StartImport(_ context.Context, req ImportRequest) (string, error) {
	if len(req.Data) == 0 {
		return "", fmt.Errorf("empty receipt payload")
	}

	jobID := uuid.NewString()

	// Create cancellable context from Background - NOT from the request context.
	// This prevents the job from being cancelled when the HTTP request completes.
	jobCtx, cancel := context.WithCancel(context.Background())

	job := &ImportJob{
		ID:         jobID,
		SourceName: req.SourceName,
		SourceType: importer.SniffSourceType(req.Data),
		SourceSize: int64(len(req.Data)),
		Status:     StatusPending,
		StartedAt:  time.Now(),
		Progress:   ImportProgress{CurrentPhase: "pending", LastUpdate: time.Now()},
		cancelFunc: cancel,
	}

	// Admission and registration happen under one lock so concurrent
	// requests cannot both squeeze past the active-job cap.
	s.jobsMutex.Lock()
	active := 0
	for _, j := range s.jobs {
		if j.Status == StatusPending || j.Status == StatusRunning {
			active++
		}
	}
	if active >= s.maxActive {
		s.jobsMutex.Unlock()
		cancel()
		return "", fmt.Errorf("too many imports in progress (max %d)", s.maxActive)
	}
	s.jobs[jobID] = job
	s.jobsMutex.Unlock()

	go s.runImportJob(jobCtx, job, req.Data)

	s.logger.Info("import job started",
		"job_id", jobID,
		"source_name", req.SourceName,
		"source_type", job.SourceType,
		"source_size", job.SourceSize,
	)

	return jobID, nil
}

// GetImportJob retrieves a snapshot of an import job by ID.
func (s *ImportService) GetImportJob(jobID string) (*ImportJob, error) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	return job.snapshot(), nil
}

// ListActiveImportJobs returns all running or pending jobs.
func (s *ImportService) ListActiveImportJobs() []*ImportJob {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	var active []*ImportJob
	for _, job := range s.jobs {
		if job.Status == StatusPending || job.Status == StatusRunning {
			active = append(active, job.snapshot())
		}
	}
	return active
}

// ListAllImportJobs returns all jobs (for debugging/monitoring).
func (s *ImportService) ListAllImportJobs() []*ImportJob {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	jobs := make([]*ImportJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.snapshot())
	}
	return jobs
}

// CancelImport cancels a running import job.
func (s *ImportService) CancelImport(jobID string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status != StatusPending && job.Status != StatusRunning {
		return fmt.Errorf("job cannot be cancelled: status=%s", job.Status)
	}

	job.cancelFunc()
	job.Status = StatusCancelled
	now := time.Now()
	job.CompletedAt = &now
	job.Progress.CurrentPhase = "cancelled"
	job.Progress.LastUpdate = now

	s.logger.Info("import job cancelled", "job_id", jobID)
	return nil
}

// runImportJob executes the import job in a background goroutine. The payload
// is passed by value so the goroutine never touches mutable job state without
// the lock; cancellation only has to fire the context.
func (s *ImportService) runImportJob(ctx context.Context, job *ImportJob, data []byte) {
	s.updateJobStatus(job.ID, StatusRunning, ImportProgress{
		CurrentPhase: "recognizing",
		LastUpdate:   time.Now(),
	})

	// Audit record is best-effort: a storage hiccup must not block the import
	runID, err := s.storage.StartImportRun(job.ID, job.SourceName, job.SourceType, job.SourceSize)
	if err != nil {
		s.logger.Warn("failed to record import run", "job_id", job.ID, "error", err)
	}

	items, err := s.extractor.Extract(ctx, data)
	if err != nil {
		if ctx.Err() == context.Canceled {
			// Already marked as cancelled in CancelImport
			s.finishRun(runID, 0, storage.RunStatusCancelled, "cancelled")
			return
		}
		s.finishRun(runID, 0, storage.RunStatusFailed, err.Error())
		s.failJob(job.ID, err)
		return
	}

	if ctx.Err() == context.Canceled {
		s.finishRun(runID, 0, storage.RunStatusCancelled, "cancelled")
		return
	}

	notice := ""
	if len(items) == 0 {
		notice = "no line items were recognized in the receipt"
	}
	s.finishRun(runID, len(items), storage.RunStatusCompleted, "")
	s.completeJob(job.ID, items, notice)
}

// updateJobStatus updates a job's status and progress. Jobs already in a
// terminal state keep it, so a cancel landing before the goroutine starts
// is not overwritten.
func (s *ImportService) updateJobStatus(jobID string, status ImportStatus, progress ImportProgress) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		if job.Status != StatusPending && job.Status != StatusRunning {
			return
		}
		job.Status = status
		job.Progress = progress
	}
}

// completeJob marks a job as completed with its extracted items.
func (s *ImportService) completeJob(jobID string, items []receipt.LineItem, notice string) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return
	}
	// Cancelled jobs stay cancelled
	if job.Status != StatusPending && job.Status != StatusRunning {
		return
	}

	now := time.Now()
	job.Status = StatusCompleted
	job.CompletedAt = &now
	job.Items = items
	job.Notice = notice
	job.Progress.CurrentPhase = "completed"
	job.Progress.LastUpdate = now

	s.logger.Info("import job completed",
		"job_id", jobID,
		"items_found", len(items),
	)
}

// failJob marks a job as failed with an error.
func (s *ImportService) failJob(jobID string, err error) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return
	}
	if job.Status != StatusPending && job.Status != StatusRunning {
		return
	}

	now := time.Now()
	job.Status = StatusFailed
	job.CompletedAt = &now
	job.Error = err
	job.Progress = ImportProgress{
		CurrentPhase: "failed",
		LastUpdate:   now,
	}

	s.logger.Error("import job failed", "job_id", jobID, "error", err)
}

// finishRun records the outcome of an audit run, if one was started.
func (s *ImportService) finishRun(runID int64, itemsFound int, status, message string) {
	if runID == 0 {
		return
	}
	if err := s.storage.CompleteImportRun(runID, itemsFound, status, message); err != nil {
		s.logger.Warn("failed to record import run completion", "run_id", runID, "error", err)
	}
}

// snapshot copies the job for return to callers, leaving out the cancel
// plumbing. Must be called with jobsMutex held.
func (j *ImportJob) snapshot() *ImportJob {
	copied := *j
	copied.cancelFunc = nil
	return &copied
}

// CleanupOldJobs removes completed jobs older than the specified duration.
func (s *ImportService) CleanupOldJobs(maxAge time.Duration) int {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, job := range s.jobs {
		// Only remove finished jobs
		if job.Status == StatusCompleted || job.Status == StatusFailed || job.Status == StatusCancelled {
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(s.jobs, id)
				removed++
			}
		}
	}

	if removed > 0 {
		s.logger.Debug("cleaned up old import jobs", "removed", removed)
	}

	return removed
}

// MarkStaleJobsAsFailed finds jobs that appear to be stuck and marks them as failed.
// A job is considered stale if:
// 1. It has been running longer than maxDuration, OR
// 2. Its Progress.LastUpdate is older than staleThreshold
//
// This handles cases where:
// - The goroutine panicked and never updated the job status
// - The recognition tool hung without respecting cancellation
// - The server restarted and orphaned in-memory job state
func (s *ImportService) MarkStaleJobsAsFailed(staleThreshold, maxDuration time.Duration) int {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	now := time.Now()
	marked := 0

	for id, job := range s.jobs {
		// Only check running or pending jobs
		if job.Status != StatusRunning && job.Status != StatusPending {
			continue
		}

		isStale := false
		reason := ""

		// Check if job has exceeded max duration
		if now.Sub(job.StartedAt) > maxDuration {
			isStale = true
			reason = fmt.Sprintf("exceeded max duration of %v (started %v ago)", maxDuration, now.Sub(job.StartedAt).Round(time.Second))
		}

		// Check if progress hasn't been updated recently
		if !isStale && now.Sub(job.Progress.LastUpdate) > staleThreshold {
			isStale = true
			reason = fmt.Sprintf("no progress update for %v (threshold: %v)", now.Sub(job.Progress.LastUpdate).Round(time.Second), staleThreshold)
		}

		if isStale {
			// Cancel the context in case the goroutine is still running
			if job.cancelFunc != nil {
				job.cancelFunc()
			}

			job.Status = StatusFailed
			job.CompletedAt = &now
			job.Error = fmt.Errorf("job marked as stale: %s", reason)
			job.Progress.CurrentPhase = "failed"
			job.Progress.LastUpdate = now

			s.logger.Warn("marked stale job as failed",
				"job_id", id,
				"reason", reason,
				"started_at", job.StartedAt,
			)

			marked++
		}
	}

	return marked
}

// IsJobStale checks if a specific job is considered stale.
func (s *ImportService) IsJobStale(jobID string, staleThreshold, maxDuration time.Duration) bool {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return false
	}

	if job.Status != StatusRunning && job.Status != StatusPending {
		return false
	}

	now := time.Now()
	return now.Sub(job.StartedAt) > maxDuration || now.Sub(job.Progress.LastUpdate) > staleThreshold
}

// StartBackgroundCleanup starts a background goroutine that periodically:
// 1. Marks stale jobs as failed
// 2. Cleans up old finished jobs
//
// The cleanup runs every checkInterval. Call StopBackgroundCleanup to stop it.
func (s *ImportService) StartBackgroundCleanup(checkInterval time.Duration) {
	s.cleanupStop = make(chan struct{})
	s.cleanupDone = make(chan struct{})

	go func() {
		defer close(s.cleanupDone)

		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()

		s.logger.Info("background job cleanup started",
			"check_interval", checkInterval,
			"stale_threshold", DefaultJobStaleThreshold,
			"max_duration", DefaultJobMaxDuration,
		)

		for {
			select {
			case <-s.cleanupStop:
				s.logger.Info("background job cleanup stopped")
				return
			case <-ticker.C:
				staleMarked := s.MarkStaleJobsAsFailed(DefaultJobStaleThreshold, DefaultJobMaxDuration)
				if staleMarked > 0 {
					s.logger.Info("marked stale jobs as failed", "count", staleMarked)
				}

				cleaned := s.CleanupOldJobs(completedJobRetention)
				if cleaned > 0 {
					s.logger.Debug("cleaned up old jobs", "count", cleaned)
				}
			}
		}
	}()
}

// StopBackgroundCleanup stops the background cleanup goroutine.
// This method blocks until the cleanup goroutine has fully stopped.
func (s *ImportService) StopBackgroundCleanup() {
	if s.cleanupStop == nil {
		return
	}

	close(s.cleanupStop)
	<-s.cleanupDone
}
