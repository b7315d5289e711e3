package models

import (
	"strings"
	"time"
)

// NotAvailable is the provider placeholder for a missing rating value.
// Incoming values equal to it never overwrite stored data.
const NotAvailable = "N/A"

// RatingPeriod identifies one of the three lookback windows a rating record
// tracks, expressed in years.
type RatingPeriod float64

const (
	PeriodSixMonths  RatingPeriod = 0.5
	PeriodOneYear    RatingPeriod = 1
	PeriodThreeYears RatingPeriod = 3
)

// RatingKey builds the canonical composite key for an instrument. Ratings
// are per-instrument, not per-entry-instance: two entries with the same name
// and ISIN collapse to the same record.
func RatingKey(instrumentName, isinNumber string) string {
	if isinNumber == "" {
		isinNumber = NotAvailable
	}
	return instrumentName + "::" + isinNumber
}

// RatingKeyForEntry derives the rating key for a portfolio entry.
func RatingKeyForEntry(e *PortfolioEntry) string {
	return RatingKey(e.InstrumentName, e.IsinNumber)
}

// SplitRatingKey returns the instrument-name and ISIN portions of a key.
// Keys without a separator are treated as name-only.
func SplitRatingKey(key string) (name, isin string) {
	idx := strings.LastIndex(key, "::")
	if idx < 0 {
		return key, ""
	}
	name, isin = key[:idx], key[idx+2:]
	if isin == NotAvailable {
		isin = ""
	}
	return name, isin
}

// RatingRecord holds the period returns known for one instrument within a
// client session. Values are decimal strings as supplied by the source;
// empty means unknown.
type RatingRecord struct {
	Key            string    `json:"key" badgerhold:"key"`
	InstrumentName string    `json:"instrument_name"`
	IsinNumber     string    `json:"isin_number"`
	ClientID       string    `json:"client_id" badgerhold:"index"`
	LastUpdated    time.Time `json:"last_updated"`
	Rating6Months  string    `json:"rating_6_months"`
	Rating1Year    string    `json:"rating_1_year"`
	Rating3Years   string    `json:"rating_3_years"`
}

// PartialRating carries incoming rating fields for a merge. Empty or "N/A"
// fields leave the stored value untouched.
type PartialRating struct {
	Rating6Months string
	Rating1Year   string
	Rating3Years  string
}

// HasValue reports whether v is a usable rating value, i.e. not empty,
// whitespace or the "N/A" placeholder.
func HasValue(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, NotAvailable)
}
