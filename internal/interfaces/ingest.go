package interfaces

import (
	"context"

	"github.com/ternarybob/clientfolio/internal/models"
)

// IngestResult summarizes one ingestion batch. Unmatched rows are skipped
// by contract, but the counters keep the skips observable.
type IngestResult struct {
	Rows    int `json:"rows"`
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SpreadsheetIngestor feeds parsed spreadsheet rows through the matcher
// into the ratings store.
type SpreadsheetIngestor interface {
	Ingest(ctx context.Context, rows []models.Row, entries []models.PortfolioEntry) (IngestResult, error)
}

// FactSheetIngestor fetches fund fact sheets linked from spreadsheet rows,
// extracts their text and merges parsed period returns into the ratings
// store. Rows and links are processed sequentially; individual fetch or
// parse failures never abort the batch.
type FactSheetIngestor interface {
	Ingest(ctx context.Context, rows []models.Row, entries []models.PortfolioEntry) (IngestResult, error)
}
