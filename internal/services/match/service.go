// Package match resolves externally-sourced instrument references against a
// client's portfolio entries by exact ISIN, falling back to a token-set
// similarity score over instrument names.
package match

import (
	"strings"
	"unicode"

	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
)

// MatchThreshold is the minimum similarity score a fuzzy match must exceed.
// The comparison is strict: a score of exactly 80 is rejected.
const MatchThreshold = 80

// Service implements interfaces.Matcher
type Service struct{}

// Compile-time assertion
var _ interfaces.Matcher = (*Service)(nil)

// NewService creates a new matcher service
func NewService() *Service {
	return &Service{}
}

// Match returns the first entry with an exact ISIN match when a candidate
// ISIN is supplied. Otherwise the candidate name is compared against every
// entry's instrument name and the best score above the threshold wins; ties
// keep the first-encountered entry. Returns nil when nothing qualifies.
func (s *Service) Match(candidateName, candidateIsin string, entries []models.PortfolioEntry) *models.PortfolioEntry {
	if candidateIsin != "" {
		for i := range entries {
			if entries[i].IsinNumber == candidateIsin {
				return &entries[i]
			}
		}
	}

	if candidateName == "" {
		return nil
	}

	var best *models.PortfolioEntry
	bestScore := 0
	for i := range entries {
		score := TokenSetRatio(candidateName, entries[i].InstrumentName)
		if score > bestScore {
			bestScore = score
			best = &entries[i]
		}
	}

	if bestScore > MatchThreshold {
		return best
	}
	return nil
}

// MatchKey resolves a candidate against known rating keys rather than
// portfolio entries: first by ISIN suffix, then fuzzily against the
// instrument-name portion of each key.
func (s *Service) MatchKey(candidateName, candidateIsin string, keys []string) string {
	if candidateIsin != "" {
		for _, key := range keys {
			if strings.HasSuffix(key, "::"+candidateIsin) {
				return key
			}
		}
	}

	if candidateName == "" {
		return ""
	}

	bestKey := ""
	bestScore := 0
	for _, key := range keys {
		name, _ := models.SplitRatingKey(key)
		score := TokenSetRatio(candidateName, name)
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestScore > MatchThreshold {
		return bestKey
	}
	return ""
}

// TokenSetRatio computes an order-independent similarity between two
// strings as the overlap between their lower-cased word-token sets,
// scaled 0-100.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	overlap := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			overlap++
		}
	}

	return (2 * overlap * 100) / (len(setA) + len(setB))
}

// tokenSet splits a string into its lower-cased alphanumeric tokens.
func tokenSet(s string) map[string]struct{} {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
