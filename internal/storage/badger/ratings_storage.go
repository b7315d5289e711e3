package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RatingsStorage implements the RatingsStorage interface for Badger
type RatingsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.RatingsStorage = (*RatingsStorage)(nil)

// NewRatingsStorage creates a new RatingsStorage instance
func NewRatingsStorage(db *BadgerDB, logger arbor.ILogger) *RatingsStorage {
	return &RatingsStorage{
		db:     db,
		logger: logger,
	}
}

// GetByClient returns all rating records stored for a client session.
func (s *RatingsStorage) GetByClient(ctx context.Context, clientID string) (map[string]models.RatingRecord, error) {
	var records []models.RatingRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ClientID").Eq(clientID)); err != nil {
		return nil, fmt.Errorf("failed to find ratings for client %s: %w", clientID, err)
	}

	out := make(map[string]models.RatingRecord, len(records))
	for _, r := range records {
		out[r.Key] = r
	}
	return out, nil
}

// Upsert writes one rating record keyed by its composite rating key.
func (s *RatingsStorage) Upsert(ctx context.Context, record models.RatingRecord) error {
	if record.Key == "" {
		return fmt.Errorf("rating record has no key")
	}
	if err := s.db.Store().Upsert(record.Key, &record); err != nil {
		return fmt.Errorf("failed to upsert rating %s: %w", record.Key, err)
	}
	return nil
}

// UpsertBatch writes a full ratings map, best effort. Every record is
// attempted; the first error is returned.
func (s *RatingsStorage) UpsertBatch(ctx context.Context, records map[string]models.RatingRecord) error {
	var firstErr error
	for _, record := range records {
		if err := s.Upsert(ctx, record); err != nil {
			s.logger.Warn().Err(err).Str("key", record.Key).Msg("Failed to persist rating record")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
