// Package spreadsheet parses provider workbooks into normalized rows and
// feeds period returns through the matcher into the ratings store.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
	"github.com/xuri/excelize/v2"
)

// HeaderMarker is the column title that identifies the true header row when
// the sheet carries a preamble above it.
const HeaderMarker = "Text"

// Parser implements interfaces.SpreadsheetParser using excelize.
type Parser struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.SpreadsheetParser = (*Parser)(nil)

// NewParser creates a new spreadsheet parser
func NewParser(logger arbor.ILogger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads the first sheet of an xlsx workbook into header->cell rows.
// The header row is the first row containing the marker column; if no marker
// is present the first non-empty row is used. A workbook with no data rows
// yields an empty slice, not an error.
func (p *Parser) Parse(data []byte) ([]models.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	headerIdx, header := findHeader(raw)
	if header == nil {
		p.logger.Warn().Str("sheet", sheets[0]).Msg("No header row found in workbook")
		return nil, nil
	}

	rows := make([]models.Row, 0, len(raw)-headerIdx-1)
	for _, cells := range raw[headerIdx+1:] {
		if isEmptyRow(cells) {
			continue
		}
		row := make(models.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			}
		}
		rows = append(rows, row)
	}

	p.logger.Debug().Str("sheet", sheets[0]).Int("rows", len(rows)).Msg("Parsed workbook")
	return rows, nil
}

// findHeader locates the true header row.
func findHeader(raw [][]string) (int, []string) {
	for i, cells := range raw {
		for _, c := range cells {
			if strings.TrimSpace(c) == HeaderMarker {
				return i, trimAll(cells)
			}
		}
	}
	for i, cells := range raw {
		if !isEmptyRow(cells) {
			return i, trimAll(cells)
		}
	}
	return -1, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
