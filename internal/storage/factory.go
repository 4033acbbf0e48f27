package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/storage/badger"
	"github.com/ternarybob/motif/internal/storage/memory"
)

// NewStorageManager creates a storage manager for the configured backend.
// The in-memory backend matches the single-process deployment model; Badger
// keeps jobs and undelivered results across restarts.
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	switch config.Storage.Type {
	case "", "memory":
		return memory.NewManager(&config.Registry, logger), nil
	case "badger":
		return badger.NewManager(config, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: memory, badger)", config.Storage.Type)
	}
}
