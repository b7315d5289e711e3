package interfaces

import (
	"context"

	"github.com/ternarybob/clientfolio/internal/models"
)

// RatingsStorage persists rating records keyed by the composite rating key,
// indexed by client session.
type RatingsStorage interface {
	// GetByClient returns all records stored for a client session.
	GetByClient(ctx context.Context, clientID string) (map[string]models.RatingRecord, error)

	// Upsert writes one record.
	Upsert(ctx context.Context, record models.RatingRecord) error

	// UpsertBatch writes a full map, best effort; the first error is
	// returned after all records have been attempted.
	UpsertBatch(ctx context.Context, records map[string]models.RatingRecord) error
}

// StorageManager aggregates the storage interfaces behind one lifecycle.
type StorageManager interface {
	RatingsStorage() RatingsStorage
	Close() error
}
