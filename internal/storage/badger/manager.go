package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
)

// Manager implements the StorageManager interface for the Badger backend
type Manager struct {
	db      *BadgerDB
	jobs    *JobStorage
	results *ResultStorage
	logger  arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(cfg *common.Config, logger arbor.ILogger) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("path", cfg.Storage.Badger.Path).Msg("Badger storage manager initialized")

	return &Manager{
		db:      db,
		jobs:    NewJobStorage(db, &cfg.Registry, logger),
		results: NewResultStorage(db, &cfg.Registry, logger),
		logger:  logger,
	}, nil
}

// JobStorage returns the job registry
func (m *Manager) JobStorage() interfaces.JobStorage {
	return m.jobs
}

// ResultStorage returns the result store
func (m *Manager) ResultStorage() interfaces.ResultStorage {
	return m.results
}

// Close closes the underlying database
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing Badger storage manager")
	return m.db.Close()
}
