package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
)

// JobStorage is the in-process job registry: a mutex-guarded map with
// time-based sweep and lazy eviction on read. Each key is written once at
// creation and once at completion; the mutex makes Complete/Fail and
// Sweep's deletions mutually exclusive so a sweep can never race
// destructively with an in-flight completion.
type JobStorage struct {
	mu        sync.Mutex
	jobs      map[string]*models.Job
	maxAge    time.Duration
	retention time.Duration
	logger    arbor.ILogger
}

// NewJobStorage creates a new in-memory job registry.
func NewJobStorage(cfg *common.RegistryConfig, logger arbor.ILogger) *JobStorage {
	return &JobStorage{
		jobs:      make(map[string]*models.Job),
		maxAge:    cfg.MaxJobAge,
		retention: cfg.CompletedRetention,
		logger:    logger,
	}
}

// Create inserts a new live record.
func (s *JobStorage) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("%w: job %s", interfaces.ErrDuplicateKey, job.ID)
	}

	s.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns the record for the given id, lazily evicting terminal
// records older than the retention window.
func (s *JobStorage) Get(ctx context.Context, jobID string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", interfaces.ErrNotFound, jobID)
	}

	// Expired-but-not-yet-swept records behave identically to NotFound.
	if job.CompletedAt != nil && time.Since(*job.CompletedAt) > s.retention {
		delete(s.jobs, jobID)
		return nil, fmt.Errorf("%w: job %s", interfaces.ErrNotFound, jobID)
	}

	// Deep copy: the caller must never write through to stored state.
	return job.Clone(), nil
}

// Complete transitions a live record to completed. A no-op on records
// already terminal.
func (s *JobStorage) Complete(ctx context.Context, jobID string, result *models.AnimationPayload) error {
	return s.finish(jobID, models.JobStatusCompleted, result, "")
}

// Fail transitions a live record to error. A no-op on records already
// terminal.
func (s *JobStorage) Fail(ctx context.Context, jobID string, message string) error {
	return s.finish(jobID, models.JobStatusError, nil, message)
}

func (s *JobStorage) finish(jobID string, status models.JobStatus, result *models.AnimationPayload, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		// The record may have been swept while the worker was running;
		// the outcome is simply dropped, the client sees NotFound.
		return fmt.Errorf("%w: job %s", interfaces.ErrNotFound, jobID)
	}

	if job.IsTerminal() {
		return nil
	}

	now := time.Now()
	job.Status = status
	job.CompletedAt = &now
	job.Result = result.Clone()
	job.Error = message
	return nil
}

// Sweep deletes records past the maximum live age or the post-completion
// retention window. Returns the number of records deleted.
func (s *JobStorage) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, job := range s.jobs {
		expired := now.Sub(job.SubmittedAt) > s.maxAge ||
			(job.CompletedAt != nil && now.Sub(*job.CompletedAt) > s.retention)
		if expired {
			delete(s.jobs, id)
			deleted++
		}
	}

	if deleted > 0 {
		s.logger.Debug().Int("deleted", deleted).Msg("Swept expired jobs")
	}

	return deleted, nil
}

// Len returns the number of live records. Used by tests and status reporting.
func (s *JobStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
