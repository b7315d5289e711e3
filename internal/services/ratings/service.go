// Package ratings holds the per-session instrument ratings map and its
// merge semantics. The map is primed from persisted storage at session load
// and flushed back after every ingestion batch; persistence failures are
// downgraded to warnings so manual edits stay usable locally.
package ratings

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
)

// Service implements interfaces.RatingsStore
type Service struct {
	storage interfaces.RatingsStorage
	logger  arbor.ILogger

	mu       sync.Mutex
	clientID string
	records  map[string]models.RatingRecord
	order    []string

	now func() time.Time
}

// Compile-time assertion
var _ interfaces.RatingsStore = (*Service)(nil)

// NewService creates a new ratings store. storage may be nil for a purely
// in-memory session.
func NewService(storage interfaces.RatingsStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		records: make(map[string]models.RatingRecord),
		now:     time.Now,
	}
}

// Load primes the in-memory map from storage for a client session. Storage
// failures leave the session empty and are logged, not returned.
func (s *Service) Load(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clientID = clientID
	s.records = make(map[string]models.RatingRecord)
	s.order = nil

	if s.storage == nil {
		return nil
	}

	saved, err := s.storage.GetByClient(ctx, clientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("client_id", clientID).Msg("Failed to load saved ratings, starting with empty map")
		return nil
	}

	for key, record := range saved {
		s.records[key] = record
		s.order = append(s.order, key)
	}

	s.logger.Debug().Str("client_id", clientID).Int("ratings", len(saved)).Msg("Loaded saved ratings")
	return nil
}

// Merge applies a partial update under key. A missing record is created
// carrying the key, instrument identity, client id and a fresh timestamp.
// Each period field is replaced only when the incoming value is non-empty
// and not "N/A". LastUpdated is refreshed on every call, even when no field
// changes value.
func (s *Service) Merge(ctx context.Context, key, instrumentName, isinNumber string, partial models.PartialRating) models.RatingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		record = models.RatingRecord{
			Key:            key,
			InstrumentName: instrumentName,
			IsinNumber:     isinNumber,
			ClientID:       s.clientID,
		}
		s.order = append(s.order, key)
	}

	if models.HasValue(partial.Rating6Months) {
		record.Rating6Months = partial.Rating6Months
	}
	if models.HasValue(partial.Rating1Year) {
		record.Rating1Year = partial.Rating1Year
	}
	if models.HasValue(partial.Rating3Years) {
		record.Rating3Years = partial.Rating3Years
	}
	record.LastUpdated = s.now()

	s.records[key] = record
	return record
}

// SetField is the manual edit path: an explicit user edit always
// overwrites, including writing an empty value. The record is persisted
// immediately; a write failure keeps the local value and logs a warning.
func (s *Service) SetField(ctx context.Context, key string, period models.RatingPeriod, value string) {
	s.mu.Lock()

	record, ok := s.records[key]
	if !ok {
		name, isin := models.SplitRatingKey(key)
		record = models.RatingRecord{
			Key:            key,
			InstrumentName: name,
			IsinNumber:     isin,
			ClientID:       s.clientID,
		}
		s.order = append(s.order, key)
	}

	switch period {
	case models.PeriodSixMonths:
		record.Rating6Months = value
	case models.PeriodOneYear:
		record.Rating1Year = value
	case models.PeriodThreeYears:
		record.Rating3Years = value
	}
	record.LastUpdated = s.now()

	s.records[key] = record
	s.mu.Unlock()

	if s.storage == nil {
		return
	}
	if err := s.storage.Upsert(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to persist rating edit, keeping local value")
	}
}

// Get returns the record under key or ErrRatingNotFound.
func (s *Service) Get(key string) (models.RatingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return models.RatingRecord{}, interfaces.ErrRatingNotFound
	}
	return record, nil
}

// Keys returns the known rating keys in insertion order.
func (s *Service) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Snapshot returns a copy of the full map.
func (s *Service) Snapshot() map[string]models.RatingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.RatingRecord, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

// Flush persists the full map after an ingestion batch. The in-memory map
// is retained regardless of the outcome.
func (s *Service) Flush(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	return s.storage.UpsertBatch(ctx, s.Snapshot())
}
