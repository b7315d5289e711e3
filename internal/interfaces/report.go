package interfaces

import "github.com/ternarybob/clientfolio/internal/models"

// ReportComposer assembles the client-feedback PDF document. It performs no
// I/O; all inputs are pre-fetched.
type ReportComposer interface {
	// Compose renders the report for the client. selected limits the run
	// to a subset of portfolios; nil means all. The client record is
	// deep-copied before trimming and never mutated.
	Compose(client *models.ClientRecord, selected []models.PortfolioDetail, ratings map[string]models.RatingRecord, options models.ReportOptions) (*models.ReportDocument, error)
}
