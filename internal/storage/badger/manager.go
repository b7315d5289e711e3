package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db      *BadgerDB
	ratings interfaces.RatingsStorage
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:      db,
		ratings: NewRatingsStorage(db, logger),
		logger:  logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// RatingsStorage returns the ratings storage interface
func (m *Manager) RatingsStorage() interfaces.RatingsStorage {
	return m.ratings
}

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}
