package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/clientfolio/internal/models"
)

// ErrRatingNotFound is returned when a rating key has no stored record.
var ErrRatingNotFound = errors.New("rating not found")

// RatingsStore holds the per-session ratings map and its merge semantics.
// All mutations for a session are serialized by the implementation.
type RatingsStore interface {
	// Load primes the in-memory map from persisted storage for a client
	// session. A persistence failure is downgraded to a warning and the
	// store starts empty.
	Load(ctx context.Context, clientID string) error

	// Merge applies a partial update to the record under key, creating a
	// default record on first write. Empty or "N/A" incoming fields never
	// erase stored values. LastUpdated is refreshed on every call.
	Merge(ctx context.Context, key string, instrumentName, isinNumber string, partial models.PartialRating) models.RatingRecord

	// SetField is the manual edit path: it always overwrites the period
	// field, including with an empty value, and refreshes LastUpdated.
	SetField(ctx context.Context, key string, period models.RatingPeriod, value string)

	// Get returns the record under key or ErrRatingNotFound.
	Get(key string) (models.RatingRecord, error)

	// Keys returns the known rating keys in insertion order.
	Keys() []string

	// Snapshot returns a copy of the full map.
	Snapshot() map[string]models.RatingRecord

	// Flush persists the full map. Failures are returned so callers can
	// warn, but local state is always retained.
	Flush(ctx context.Context) error
}
