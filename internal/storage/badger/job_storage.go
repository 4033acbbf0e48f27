package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
)

// JobStorage implements the job registry on Badger. The same lifecycle
// rules as the in-memory backend apply: records expire by age since
// submission, terminal records expire by age since completion, and reads
// evict lazily.
type JobStorage struct {
	db        *BadgerDB
	maxAge    time.Duration
	retention time.Duration
	logger    arbor.ILogger
}

// NewJobStorage creates a new Badger-backed job registry
func NewJobStorage(db *BadgerDB, cfg *common.RegistryConfig, logger arbor.ILogger) *JobStorage {
	return &JobStorage{
		db:        db,
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

	if err := s.db.Store().Insert(job.ID, job); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("%w: job %s", interfaces.ErrDuplicateKey, job.ID)
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// Get returns the record for the given id, lazily evicting terminal
// records older than the retention window.
func (s *JobStorage) Get(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := s.db.Store().Get(jobID, &job); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: job %s", interfaces.ErrNotFound, jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if s.expired(&job, time.Now()) {
		if err := s.db.Store().Delete(jobID, &models.Job{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			s.logger.Warn().Err(err).Str("job_id", jobID).Msg("Failed to evict expired job")
		}
		return nil, fmt.Errorf("%w: job %s", interfaces.ErrNotFound, jobID)
	}

	return &job, nil
}

// Complete transitions a live record to completed with the given result.
func (s *JobStorage) Complete(ctx context.Context, jobID string, result *models.AnimationPayload) error {
	return s.finish(jobID, func(job *models.Job, now time.Time) {
		job.Status = models.JobStatusCompleted
		job.Result = result
		job.CompletedAt = &now
	})
}

// Fail transitions a live record to error with the given message.
func (s *JobStorage) Fail(ctx context.Context, jobID string, message string) error {
	return s.finish(jobID, func(job *models.Job, now time.Time) {
		job.Status = models.JobStatusError
		job.Error = message
		job.CompletedAt = &now
	})
}

// finish applies a terminal transition. A record that was swept while the
// job was in flight reports ErrNotFound; a record that is already terminal
// is left untouched.
func (s *JobStorage) finish(jobID string, apply func(*models.Job, time.Time)) error {
	var job models.Job
	if err := s.db.Store().Get(jobID, &job); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("%w: job %s", interfaces.ErrNotFound, jobID)
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	if job.IsTerminal() {
		return nil
	}

	apply(&job, time.Now())

	if err := s.db.Store().Update(jobID, &job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// Sweep deletes expired records and returns the number deleted.
func (s *JobStorage) Sweep(ctx context.Context, now time.Time) (int, error) {
	var jobs []models.Job
	if err := s.db.Store().Find(&jobs, badgerhold.Where("ID").Ne("")); err != nil {
		return 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	deleted := 0
	for i := range jobs {
		if !s.expired(&jobs[i], now) {
			continue
		}
		if err := s.db.Store().Delete(jobs[i].ID, &models.Job{}); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				continue
			}
			return deleted, fmt.Errorf("failed to delete job %s: %w", jobs[i].ID, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *JobStorage) expired(job *models.Job, now time.Time) bool {
	if now.Sub(job.SubmittedAt) > s.maxAge {
		return true
	}
	if job.IsTerminal() && job.CompletedAt != nil && now.Sub(*job.CompletedAt) > s.retention {
		return true
	}
	return false
}
