package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/models"
)

// ResultStorage is the in-process store-and-forward result map. Retrieval
// of a terminal record deletes it atomically (read-and-clear); an idle
// sweep bounds memory growth from requests whose client never polls again.
type ResultStorage struct {
	mu      sync.Mutex
	results map[string]*models.Outcome
	idleAge time.Duration
	logger  arbor.ILogger
}

// NewResultStorage creates a new in-memory result store.
func NewResultStorage(cfg *common.RegistryConfig, logger arbor.ILogger) *ResultStorage {
	return &ResultStorage{
		results: make(map[string]*models.Outcome),
		idleAge: cfg.ResultIdleAge,
		logger:  logger,
	}
}

// Put upserts the outcome for a request id, overwriting any prior record.
func (s *ResultStorage) Put(ctx context.Context, outcome *models.Outcome) error {
	if outcome.RequestID == "" {
		return fmt.Errorf("request ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := outcome.Clone()
	stored.LastWriteAt = time.Now()
	s.results[outcome.RequestID] = stored
	return nil
}

// TakeIfTerminal returns the record for the given id, deleting terminal
// records as part of the same operation. A nil record with nil error means
// no outcome is available yet.
func (s *ResultStorage) TakeIfTerminal(ctx context.Context, requestID string) (*models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, ok := s.results[requestID]
	if !ok {
		return nil, nil
	}

	if outcome.IsTerminal() {
		delete(s.results, requestID)
	}

	return outcome.Clone(), nil
}

// Sweep deletes records idle longer than the configured idle age.
func (s *ResultStorage) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, outcome := range s.results {
		if now.Sub(outcome.LastWriteAt) > s.idleAge {
			delete(s.results, id)
			deleted++
		}
	}

	if deleted > 0 {
		s.logger.Debug().Int("deleted", deleted).Msg("Swept idle results")
	}

	return deleted, nil
}

// Len returns the number of stored records.
func (s *ResultStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
