package report

import (
	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/clientfolio/internal/models"
)

// Page geometry in millimetres for A4 portrait.
const (
	pageLeft     = 10.0
	pageTop      = 15.0
	pageBottom   = 282.0 // 297 minus bottom margin
	contentWidth = 190.0
	lineHeight   = 6.0
)

// estimateHeight is the greedy pagination heuristic: the layout units one
// table is expected to occupy, including its title and header.
func estimateHeight(rowCount int) float64 {
	return 30 + float64(rowCount+1)*10
}

// layout tracks the vertical cursor while sections are written to the
// document. Sections are emitted sequentially; when the estimate for the
// next table exceeds the remaining page height, a new page is started and
// the cursor resets to the top margin.
type layout struct {
	pdf *fpdf.Fpdf
}

func newLayout(pdf *fpdf.Fpdf) *layout {
	return &layout{pdf: pdf}
}

// ensureSpace starts a new page when the estimated height does not fit.
func (l *layout) ensureSpace(estimate float64) {
	if l.pdf.GetY()+estimate > pageBottom {
		l.pdf.AddPage()
		l.pdf.SetY(pageTop)
	}
}

// renderSection writes one table descriptor at the current cursor.
func (l *layout) renderSection(s models.Section) {
	l.ensureSpace(estimateHeight(s.RowCount()))

	l.pdf.SetFont("Arial", "B", 11)
	l.pdf.SetX(pageLeft)
	l.pdf.CellFormat(contentWidth, lineHeight+2, s.Title, "", 1, "L", false, 0, "")

	widths := l.columnWidths(s)

	l.pdf.SetFont("Arial", "B", 9)
	l.pdf.SetFillColor(230, 230, 230)
	l.pdf.SetX(pageLeft)
	for i, cell := range s.Header {
		l.pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, "L", true, 0, "")
	}
	l.pdf.Ln(-1)

	l.pdf.SetFont("Arial", "", 9)
	l.pdf.SetFillColor(255, 255, 255)
	for _, row := range s.Rows {
		// A very long table still breaks mid-section rather than running
		// off the page.
		if l.pdf.GetY()+lineHeight > pageBottom {
			l.pdf.AddPage()
			l.pdf.SetY(pageTop)
		}
		l.pdf.SetX(pageLeft)
		for i, cell := range row {
			if i < len(widths) {
				l.pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, "L", false, 0, "")
			}
		}
		l.pdf.Ln(-1)
	}

	if len(s.Total) > 0 {
		l.pdf.SetFont("Arial", "B", 9)
		l.pdf.SetX(pageLeft)
		for i, cell := range s.Total {
			if i < len(widths) {
				l.pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, "L", false, 0, "")
			}
		}
		l.pdf.Ln(-1)
	}

	l.pdf.Ln(4)
}

// columnWidths sizes columns by measured content width, scaled to fill the
// content area.
func (l *layout) columnWidths(s models.Section) []float64 {
	numCols := len(s.Header)
	widths := make([]float64, numCols)

	measure := func(row []string, style string) {
		l.pdf.SetFont("Arial", style, 9)
		for i, cell := range row {
			if i >= numCols {
				continue
			}
			if w := l.pdf.GetStringWidth(cell) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	measure(s.Header, "B")
	for _, row := range s.Rows {
		measure(row, "")
	}
	if len(s.Total) > 0 {
		measure(s.Total, "B")
	}

	total := 0.0
	for i := range widths {
		if widths[i] < 15 {
			widths[i] = 15
		}
		total += widths[i]
	}

	scale := contentWidth / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}

// renderKeyValue writes one label/value line on the header page.
func (l *layout) renderKeyValue(label, value string) {
	l.pdf.SetX(pageLeft)
	l.pdf.SetFont("Arial", "B", 10)
	l.pdf.CellFormat(60, lineHeight, label, "", 0, "L", false, 0, "")
	l.pdf.SetFont("Arial", "", 10)
	l.pdf.CellFormat(contentWidth-60, lineHeight, value, "", 1, "L", false, 0, "")
}
