package report

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
)

// Service implements interfaces.ReportComposer
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ReportComposer = (*Service)(nil)

// NewService creates a new report composer
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Compose renders the client-feedback document. The client record is
// deep-copied before the portfolio list is trimmed to the selection; a nil
// selection means all portfolios. A nil client is a programmer error and is
// surfaced immediately.
func (s *Service) Compose(client *models.ClientRecord, selected []models.PortfolioDetail, ratings map[string]models.RatingRecord, options models.ReportOptions) (*models.ReportDocument, error) {
	if client == nil {
		return nil, fmt.Errorf("client record is nil")
	}
	if options.Currency == "" {
		options.Currency = "ZAR"
	}

	working := client.Clone()
	if selected != nil {
		working.Portfolios = make([]models.PortfolioDetail, len(selected))
		for i := range selected {
			working.Portfolios[i] = selected[i].Clone()
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, pageTop, pageLeft)
	pdf.SetAutoPageBreak(false, 0)

	l := newLayout(pdf)
	s.renderHeaderPage(l, working, options)

	rendered := 0
	for i := range working.Portfolios {
		p := &working.Portfolios[i]
		sections := BuildPortfolioSections(p, ratings, options)
		if len(sections.Sections) == 0 && !options.IncludePercentage {
			continue
		}
		s.renderPortfolioPage(l, p, sections)
		rendered++
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate report output: %w", err)
	}

	doc := &models.ReportDocument{
		ID:         common.NewReportID(),
		PDF:        buf.Bytes(),
		Base64:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		PageCount:  pdf.PageCount(),
		ClientName: working.DisplayName(),
	}

	s.logger.Info().
		Str("report_id", doc.ID).
		Str("client", doc.ClientName).
		Int("portfolios", rendered).
		Int("pages", doc.PageCount).
		Msg("Report composed")

	return doc, nil
}

// renderHeaderPage writes the client identity page.
func (s *Service) renderHeaderPage(l *layout, client *models.ClientRecord, options models.ReportOptions) {
	l.pdf.AddPage()
	l.pdf.SetY(pageTop)

	l.pdf.SetFont("Arial", "B", 16)
	l.pdf.SetX(pageLeft)
	l.pdf.CellFormat(contentWidth, 10, "Client Feedback Report", "", 1, "L", false, 0, "")
	l.pdf.Ln(4)

	l.renderKeyValue("Client", client.DisplayName())
	if client.IDNumber != "" {
		l.renderKeyValue("ID Number", client.IDNumber)
		if dob, ok := DeriveDateOfBirth(client.IDNumber); ok {
			l.renderKeyValue("Date of Birth", dob)
		}
	}
	if client.AdvisorName != "" {
		l.renderKeyValue("Advisor", client.AdvisorName)
	}
	if client.Email != "" {
		l.renderKeyValue("Email", client.Email)
	}
	l.renderKeyValue("Target Return (IRR)", formatNumber(options.IRR)+" %")

	if latest, ok := MostRecentContribution(client.Portfolios); ok {
		symbol := SymbolFor(latest.CurrencyAbbreviation, latest.ExchangeRate)
		l.renderKeyValue("Last Contribution", dateLabel(latest.TransactionDate)+"  "+FormatAmount(symbol, latest.ConvertedAmount))
	}
}

// renderPortfolioPage writes one portfolio's sections starting on a fresh
// page.
func (s *Service) renderPortfolioPage(l *layout, p *models.PortfolioDetail, sections models.PortfolioSections) {
	l.pdf.AddPage()
	l.pdf.SetY(pageTop)

	l.pdf.SetFont("Arial", "B", 13)
	l.pdf.SetX(pageLeft)
	l.pdf.CellFormat(contentWidth, 8, p.InstrumentName, "", 1, "L", false, 0, "")
	if p.ReferenceNumber != "" {
		l.pdf.SetFont("Arial", "", 9)
		l.pdf.SetX(pageLeft)
		l.pdf.CellFormat(contentWidth, 5, "Reference: "+p.ReferenceNumber, "", 1, "L", false, 0, "")
	}
	l.pdf.Ln(4)

	for _, section := range sections.Sections {
		l.renderSection(section)
	}

	if p.ReportNotes != "" {
		l.ensureSpace(20)
		l.pdf.SetFont("Arial", "I", 9)
		l.pdf.SetX(pageLeft)
		l.pdf.MultiCell(contentWidth, 5, p.ReportNotes, "", "L", false)
	}
}
