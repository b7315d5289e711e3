package spreadsheet

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
)

// tenforePrefixLen is the fixed provider prefix on Tenfore identifiers;
// the remainder is the ISIN.
const tenforePrefixLen = 5

// Column alias precedence. Earlier aliases win when both are present.
var (
	nameAliases      = []string{"Legal Name", "Name"}
	tenforeAliases   = []string{"ExportFile_TenforeId", "TenforeId", "Tenfore Id"}
	oneYearAliases   = []string{"12 Month Return", "1 Year"}
	threeYearAliases = []string{"36 Month Return (ann)", "3 Years Annualised"}
)

// Ingestor implements interfaces.SpreadsheetIngestor
type Ingestor struct {
	matcher interfaces.Matcher
	ratings interfaces.RatingsStore
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.SpreadsheetIngestor = (*Ingestor)(nil)

// NewIngestor creates a new spreadsheet ingestor
func NewIngestor(matcher interfaces.Matcher, ratings interfaces.RatingsStore, logger arbor.ILogger) *Ingestor {
	return &Ingestor{
		matcher: matcher,
		ratings: ratings,
		logger:  logger,
	}
}

// Ingest matches each row against the portfolio entries and merges its
// period returns into the ratings store. The record is keyed from the
// matched entry, not the raw row, so spreadsheet and manual data stay keyed
// consistently. Unmatched rows are skipped; the result counters keep the
// skips observable. The full map is flushed once per batch.
func (i *Ingestor) Ingest(ctx context.Context, rows []models.Row, entries []models.PortfolioEntry) (interfaces.IngestResult, error) {
	result := interfaces.IngestResult{Rows: len(rows)}

	for _, row := range rows {
		name := row.Get(nameAliases...)
		isin := isinFromTenforeID(row.Get(tenforeAliases...))

		entry := i.matcher.Match(name, isin, entries)
		if entry == nil {
			result.Skipped++
			continue
		}

		key := models.RatingKeyForEntry(entry)
		i.ratings.Merge(ctx, key, entry.InstrumentName, entry.IsinNumber, models.PartialRating{
			Rating1Year:  row.Get(oneYearAliases...),
			Rating3Years: row.Get(threeYearAliases...),
		})
		result.Matched++
	}

	if err := i.ratings.Flush(ctx); err != nil {
		i.logger.Warn().Err(err).Msg("Failed to persist ratings after spreadsheet batch, keeping local map")
	}

	i.logger.Info().
		Int("rows", result.Rows).
		Int("matched", result.Matched).
		Int("skipped", result.Skipped).
		Msg("Spreadsheet ingestion complete")

	return result, nil
}

// isinFromTenforeID strips the fixed provider prefix from a Tenfore
// identifier. Values too short to carry a prefix are returned empty.
func isinFromTenforeID(id string) string {
	if len(id) <= tenforePrefixLen {
		return ""
	}
	return id[tenforePrefixLen:]
}
