package models

// ReportOptions selects which report sections are rendered and carries the
// report-wide parameters. Created with defaults, toggled by the caller, read
// once per report generation.
type ReportOptions struct {
	Contributions        bool    `json:"contributions"`
	Withdrawals          bool    `json:"withdrawals"`
	RegularWithdrawals   bool    `json:"regular_withdrawals"`
	RegularContributions bool    `json:"regular_contributions"`
	InteractionHistory   bool    `json:"interaction_history"`
	IncludePercentage    bool    `json:"include_percentage"`
	IRR                  float64 `json:"irr"`
	Currency             string  `json:"currency" validate:"omitempty,len=3"`
}

// NewReportOptions returns the default option set: all sections enabled,
// ZAR reporting currency.
func NewReportOptions() ReportOptions {
	return ReportOptions{
		Contributions:        true,
		Withdrawals:          true,
		RegularWithdrawals:   true,
		RegularContributions: true,
		InteractionHistory:   true,
		IncludePercentage:    true,
		Currency:             "ZAR",
	}
}

// SectionType labels the report section a descriptor belongs to.
type SectionType string

const (
	SectionContributions      SectionType = "contributions"
	SectionWithdrawals        SectionType = "withdrawals"
	SectionRegularWithdrawals SectionType = "regular_withdrawals"
	SectionInteractionHistory SectionType = "interaction_history"
	SectionPerformance        SectionType = "performance"
)

// Section is one renderable table, produced by the section pass
// independently of layout. The layout pass decides where it fits.
type Section struct {
	Type   SectionType `json:"type"`
	Title  string      `json:"title"`
	Header []string    `json:"header"`
	Rows   [][]string  `json:"rows"`
	Total  []string    `json:"total,omitempty"`
}

// RowCount returns the number of body rows plus the total row, the figure
// the pagination estimate is based on.
func (s Section) RowCount() int {
	n := len(s.Rows)
	if len(s.Total) > 0 {
		n++
	}
	return n
}

// PortfolioSections groups the sections produced for one portfolio. A
// portfolio with no sections contributes no pages.
type PortfolioSections struct {
	InstrumentName  string    `json:"instrument_name"`
	ReferenceNumber string    `json:"reference_number"`
	Sections        []Section `json:"sections"`
}

// ReportDocument is the composer output: the PDF bytes plus the transport
// encoding handed to a viewer.
type ReportDocument struct {
	ID         string `json:"id"`
	PDF        []byte `json:"-"`
	Base64     string `json:"base64"`
	PageCount  int    `json:"page_count"`
	ClientName string `json:"client_name"`
}
