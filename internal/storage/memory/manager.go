package memory

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
)

// Manager implements the StorageManager interface for the in-memory backend
type Manager struct {
	jobs    *JobStorage
	results *ResultStorage
}

// NewManager creates a new in-memory storage manager
func NewManager(cfg *common.RegistryConfig, logger arbor.ILogger) interfaces.StorageManager {
	logger.Info().Msg("In-memory storage manager initialized")

	return &Manager{
		jobs:    NewJobStorage(cfg, logger),
		results: NewResultStorage(cfg, logger),
	}
}

// JobStorage returns the job registry
func (m *Manager) JobStorage() interfaces.JobStorage {
	return m.jobs
}

// ResultStorage returns the result store
func (m *Manager) ResultStorage() interfaces.ResultStorage {
	return m.results
}

// Close is a no-op for the in-memory backend
func (m *Manager) Close() error {
	return nil
}
