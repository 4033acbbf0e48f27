package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
)

// ResultStorage implements the store-and-forward result store on Badger.
// Terminal outcomes are deleted as part of the read that returns them, so
// each result is delivered at most once.
type ResultStorage struct {
	db      *BadgerDB
	idleAge time.Duration
	logger  arbor.ILogger
}

// NewResultStorage creates a new Badger-backed result store
func NewResultStorage(db *BadgerDB, cfg *common.RegistryConfig, logger arbor.ILogger) *ResultStorage {
	return &ResultStorage{
		db:      db,
		idleAge: cfg.ResultIdleAge,
		logger:  logger,
	}
}

// Put upserts the outcome for a request id.
func (s *ResultStorage) Put(ctx context.Context, outcome *models.Outcome) error {
	if outcome.RequestID == "" {
		return fmt.Errorf("%w: request id is required", interfaces.ErrMissingIdentifier)
	}

	outcome.LastWriteAt = time.Now()
	if err := s.db.Store().Upsert(outcome.RequestID, outcome); err != nil {
		return fmt.Errorf("failed to store outcome: %w", err)
	}
	return nil
}

// TakeIfTerminal returns the outcome for the given id, deleting it when
// terminal. A nil outcome with nil error means nothing is available yet.
func (s *ResultStorage) TakeIfTerminal(ctx context.Context, requestID string) (*models.Outcome, error) {
	var outcome models.Outcome
	found := false

	// Get and delete run in one transaction so two concurrent reads of the
	// same terminal outcome cannot both deliver it.
	err := s.db.Store().Badger().Update(func(tx *badger.Txn) error {
		if err := s.db.Store().TxGet(tx, requestID, &outcome); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return nil
			}
			return err
		}
		found = true
		if outcome.IsTerminal() {
			return s.db.Store().TxDelete(tx, requestID, &models.Outcome{})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take outcome: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &outcome, nil
}

// Sweep deletes outcomes idle longer than the configured idle age.
func (s *ResultStorage) Sweep(ctx context.Context, now time.Time) (int, error) {
	var outcomes []models.Outcome
	if err := s.db.Store().Find(&outcomes, badgerhold.Where("RequestID").Ne("")); err != nil {
		return 0, fmt.Errorf("failed to list outcomes: %w", err)
	}

	deleted := 0
	for i := range outcomes {
		if now.Sub(outcomes[i].LastWriteAt) <= s.idleAge {
			continue
		}
		if err := s.db.Store().Delete(outcomes[i].RequestID, &models.Outcome{}); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				continue
			}
			return deleted, fmt.Errorf("failed to delete outcome %s: %w", outcomes[i].RequestID, err)
		}
		deleted++
	}
	return deleted, nil
}
