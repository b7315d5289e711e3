package interfaces

import "github.com/ternarybob/clientfolio/internal/models"

// SpreadsheetParser turns raw workbook bytes into normalized rows. The
// parser locates the true header row itself when the sheet carries a
// preamble above it.
type SpreadsheetParser interface {
	Parse(data []byte) ([]models.Row, error)
}
