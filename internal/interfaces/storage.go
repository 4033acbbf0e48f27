package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/motif/internal/models"
)

// JobStorage tracks generation jobs through their lifecycle. Each record is
// written once at creation and once at completion; Sweep and lazy eviction
// on Get reclaim expired records.
type JobStorage interface {
	// Create inserts a new live (processing) record. Returns ErrDuplicateKey
	// if the id is already present.
	Create(ctx context.Context, job *models.Job) error

	// Get returns the record for the given id, or ErrNotFound. A terminal
	// record whose completion age exceeds the retention window is evicted
	// as part of the read and reported as ErrNotFound.
	Get(ctx context.Context, jobID string) (*models.Job, error)

	// Complete transitions a live record to completed with the given result.
	// Completing an already-terminal record is a no-op.
	Complete(ctx context.Context, jobID string, result *models.AnimationPayload) error

	// Fail transitions a live record to error with the given message.
	// Failing an already-terminal record is a no-op.
	Fail(ctx context.Context, jobID string, message string) error

	// Sweep deletes records whose age since submission exceeds the maximum
	// live age, or whose age since completion exceeds the retention window.
	// Returns the number of records deleted.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// ResultStorage is the store-and-forward variant: outcomes are posted back
// by external request id, decoupled from the job registry's id space.
type ResultStorage interface {
	// Put upserts the outcome for a request id, overwriting any prior record.
	Put(ctx context.Context, outcome *models.Outcome) error

	// TakeIfTerminal returns the record for the given id, deleting it as
	// part of the same operation when its status is terminal. A nil record
	// with nil error means no outcome is available yet (pending).
	TakeIfTerminal(ctx context.Context, requestID string) (*models.Outcome, error)

	// Sweep deletes records idle longer than the configured idle age,
	// bounding memory growth from clients that never poll again.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// StorageManager provides access to the configured storage backend.
type StorageManager interface {
	JobStorage() JobStorage
	ResultStorage() ResultStorage
	Close() error
}
