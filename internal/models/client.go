package models

import (
	"time"
)

// ClientRecord is the immutable client snapshot returned by the profile
// service. The report composer reads it but never mutates it; callers that
// need a trimmed portfolio subset must work on a copy (see Clone).
type ClientRecord struct {
	FirstNames      string            `json:"first_names"`
	Surname         string            `json:"surname"`
	Title           string            `json:"title"`
	RegisteredName  string            `json:"registered_name"`
	Nickname        string            `json:"nickname"`
	AdvisorName     string            `json:"advisor_name"`
	Email           string            `json:"email"`
	CellPhoneNumber string            `json:"cell_phone_number"`
	IDNumber        string            `json:"id_number"`
	Portfolios      []PortfolioDetail `json:"portfolios"`
}

// DisplayName returns the name used on report headers.
func (c *ClientRecord) DisplayName() string {
	if c.RegisteredName != "" {
		return c.RegisteredName
	}
	name := c.FirstNames + " " + c.Surname
	if c.Title != "" {
		name = c.Title + " " + name
	}
	return name
}

// Clone returns a deep copy of the client record. Portfolio, transaction and
// valuation slices are all copied so report-time trimming cannot leak back
// into the session snapshot.
func (c *ClientRecord) Clone() *ClientRecord {
	out := *c
	out.Portfolios = make([]PortfolioDetail, len(c.Portfolios))
	for i := range c.Portfolios {
		out.Portfolios[i] = c.Portfolios[i].Clone()
	}
	return &out
}

// PortfolioDetail is one investment product held by a client, with its
// configured cash flows, full transaction history, valuation snapshots and
// the instrument decomposition tree.
type PortfolioDetail struct {
	InstrumentName              string              `json:"instrument_name"`
	ReferenceNumber             string              `json:"reference_number"`
	InceptionDate               time.Time           `json:"inception_date"`
	InitialContributionAmount   float64             `json:"initial_contribution_amount"`
	RegularContributionAmount   float64             `json:"regular_contribution_amount"`
	RegularContributionFreq     string              `json:"regular_contribution_frequency"`
	RegularContributionEscal    string              `json:"regular_contribution_escalation"`
	RegularWithdrawalAmount     float64             `json:"regular_withdrawal_amount"`
	RegularWithdrawalPercentage float64             `json:"regular_withdrawal_percentage"`
	RegularWithdrawalFreq       string              `json:"regular_withdrawal_frequency"`
	RegularWithdrawalEscal      string              `json:"regular_withdrawal_escalation"`
	ReportNotes                 string              `json:"report_notes"`
	Transactions                []Transaction       `json:"transactions"`
	ValuationSnapshots          []ValuationSnapshot `json:"valuation_snapshots"`
	Entries                     []PortfolioEntry    `json:"entries"`
}

// Clone returns a deep copy of the portfolio.
func (p PortfolioDetail) Clone() PortfolioDetail {
	out := p
	out.Transactions = append([]Transaction(nil), p.Transactions...)
	out.Entries = append([]PortfolioEntry(nil), p.Entries...)
	out.ValuationSnapshots = make([]ValuationSnapshot, len(p.ValuationSnapshots))
	for i, vs := range p.ValuationSnapshots {
		out.ValuationSnapshots[i] = vs
		out.ValuationSnapshots[i].ValueModels = append([]EntryValue(nil), vs.ValueModels...)
	}
	return out
}

// PortfolioEntry is one node in a portfolio's instrument tree. Parent and
// root ids are lookup references only, never ownership. Leaves carry
// IsLowestLevel and are the actual holdings.
type PortfolioEntry struct {
	PortfolioEntryID       string `json:"portfolio_entry_id"`
	ParentPortfolioEntryID string `json:"parent_portfolio_entry_id"`
	RootPortfolioEntryID   string `json:"root_portfolio_entry_id"`
	InstrumentName         string `json:"instrument_name"`
	IsinNumber             string `json:"isin_number"`
	MorningStarID          string `json:"morning_star_id"`
	IsLowestLevel          bool   `json:"is_lowest_level"`
}

// FindEntry returns the entry with the given id, or nil.
func (p *PortfolioDetail) FindEntry(entryID string) *PortfolioEntry {
	for i := range p.Entries {
		if p.Entries[i].PortfolioEntryID == entryID {
			return &p.Entries[i]
		}
	}
	return nil
}

// LeafEntries returns the lowest-level entries, i.e. the actual holdings.
func (p *PortfolioDetail) LeafEntries() []PortfolioEntry {
	var leaves []PortfolioEntry
	for _, e := range p.Entries {
		if e.IsLowestLevel {
			leaves = append(leaves, e)
		}
	}
	return leaves
}

// Transaction is a single cash movement. TransactionType is free text from
// the product provider and is classified by substring ("contribution",
// "withdrawal", "regular").
type Transaction struct {
	TransactionDate      time.Time `json:"transaction_date"`
	TransactionType      string    `json:"transaction_type"`
	ConvertedAmount      float64   `json:"converted_amount"`
	CurrencyAbbreviation string    `json:"currency_abbreviation"`
	ExchangeRate         float64   `json:"exchange_rate"`
}

// ValuationSnapshot is a point-in-time breakdown of a portfolio's value
// across its holdings.
type ValuationSnapshot struct {
	ConvertedValueDate   time.Time    `json:"converted_value_date"`
	CurrencyAbbreviation string       `json:"currency_abbreviation"`
	TotalConvertedAmount float64      `json:"total_converted_amount"`
	ValueModels          []EntryValue `json:"value_models"`
}

// EntryValue is one holding's value within a valuation snapshot.
type EntryValue struct {
	PortfolioEntryID         string    `json:"portfolio_entry_id"`
	ValueDate                time.Time `json:"value_date"`
	ExchangeRate             float64   `json:"exchange_rate"`
	ConvertedAmount          float64   `json:"converted_amount"`
	PortfolioSharePercentage float64   `json:"portfolio_share_percentage"`
}
