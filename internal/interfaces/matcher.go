package interfaces

import "github.com/ternarybob/clientfolio/internal/models"

// Matcher resolves an externally-sourced instrument reference to a
// portfolio entry. Implementations must be pure and side-effect free.
type Matcher interface {
	// Match returns the entry for the candidate, or nil when nothing
	// matches. An exact ISIN match always wins; otherwise a normalized
	// token-set similarity above the threshold is required.
	Match(candidateName, candidateIsin string, entries []models.PortfolioEntry) *models.PortfolioEntry

	// MatchKey resolves a candidate against known rating keys instead of
	// portfolio entries, first by ISIN suffix then by fuzzy name match.
	// Returns the matched key or "".
	MatchKey(candidateName, candidateIsin string, keys []string) string
}
