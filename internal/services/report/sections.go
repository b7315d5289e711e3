// Package report assembles the client-feedback PDF document. Section
// building and page layout are separate passes: builders produce plain
// table descriptors from portfolio data, and the layout pass decides where
// each table fits on the page.
package report

import (
	"strings"
	"time"

	"github.com/ternarybob/clientfolio/internal/models"
)

// UnknownFund is the fallback instrument label when a valuation row's entry
// id is not present in the portfolio tree.
const UnknownFund = "Unknown Fund"

// ZeroRating is the placeholder for a missing or "N/A" period return on the
// performance table.
const ZeroRating = "0 %"

// isContribution classifies a transaction by substring.
func isContribution(t models.Transaction) bool {
	return strings.Contains(strings.ToLower(t.TransactionType), "contribution")
}

// isAdHocWithdrawal reports a withdrawal that is not a regular one.
func isAdHocWithdrawal(t models.Transaction) bool {
	lower := strings.ToLower(t.TransactionType)
	return strings.Contains(lower, "withdrawal") && !strings.Contains(lower, "regular")
}

// isAnyWithdrawal matches every withdrawal, regular or not.
func isAnyWithdrawal(t models.Transaction) bool {
	return strings.Contains(strings.ToLower(t.TransactionType), "withdraw")
}

// dateLabel truncates a timestamp to its calendar day, discarding the time
// and timezone portion.
func dateLabel(t time.Time) string {
	return t.Format("2006/01/02")
}

// amountGroup accumulates transactions for one calendar date.
type amountGroup struct {
	date     string
	localSum float64
	zarSum   float64
	symbol   string
}

// BuildContributions groups contribution transactions by calendar date and
// sums them in local currency and in ZAR. Net-zero dates are excluded. The
// total is shown in ZAR only when every included row is rand-denominated by
// symbol; otherwise it is shown in the report currency.
func BuildContributions(p *models.PortfolioDetail, options models.ReportOptions) *models.Section {
	var order []string
	groups := make(map[string]*amountGroup)

	for _, t := range p.Transactions {
		if !isContribution(t) {
			continue
		}
		date := dateLabel(t.TransactionDate)
		g, ok := groups[date]
		if !ok {
			g = &amountGroup{date: date, symbol: SymbolFor(t.CurrencyAbbreviation, t.ExchangeRate)}
			groups[date] = g
			order = append(order, date)
		}
		g.zarSum += t.ConvertedAmount
		if t.ExchangeRate != 0 {
			g.localSum += t.ConvertedAmount / t.ExchangeRate
		}
	}

	section := &models.Section{
		Type:   models.SectionContributions,
		Title:  "Contributions",
		Header: []string{"Date", "Amount", "Amount (ZAR)"},
	}

	allZAR := true
	var totalLocal, totalZAR float64
	for _, date := range order {
		g := groups[date]
		if g.zarSum == 0 {
			continue
		}
		if g.symbol != ZARSymbol {
			allZAR = false
		}
		totalLocal += g.localSum
		totalZAR += g.zarSum
		section.Rows = append(section.Rows, []string{
			g.date,
			FormatAmount(g.symbol, g.localSum),
			FormatAmount(ZARSymbol, g.zarSum),
		})
	}

	if len(section.Rows) == 0 {
		return nil
	}

	if allZAR {
		section.Total = []string{"TOTAL", "", FormatAmount(ZARSymbol, totalZAR)}
	} else {
		section.Total = []string{"TOTAL", "", FormatAmount(SymbolFor(options.Currency, 0), totalLocal)}
	}
	return section
}

// BuildWithdrawals groups ad-hoc withdrawals by calendar date with the
// cancellation rule: within a date, a transaction whose converted amount is
// the exact sign-inverse of one already accumulated removes that earlier
// amount instead of summing to zero. The check is order-sensitive and runs
// per transaction against the amounts queued so far for that date.
func BuildWithdrawals(p *models.PortfolioDetail) *models.Section {
	var order []string
	pending := make(map[string][]models.Transaction)

	for _, t := range p.Transactions {
		if !isAdHocWithdrawal(t) {
			continue
		}
		date := dateLabel(t.TransactionDate)
		if _, ok := pending[date]; !ok {
			order = append(order, date)
		}

		cancelled := false
		queued := pending[date]
		for i, q := range queued {
			if q.ConvertedAmount == -t.ConvertedAmount {
				pending[date] = append(queued[:i], queued[i+1:]...)
				cancelled = true
				break
			}
		}
		if !cancelled {
			pending[date] = append(pending[date], t)
		}
	}

	section := &models.Section{
		Type:   models.SectionWithdrawals,
		Title:  "Withdrawals",
		Header: []string{"Date", "Amount (ZAR)"},
	}

	var total float64
	for _, date := range order {
		var sum float64
		for _, t := range pending[date] {
			sum += t.ConvertedAmount
		}
		if len(pending[date]) == 0 {
			continue
		}
		total += sum
		section.Rows = append(section.Rows, []string{date, FormatAmount(ZARSymbol, sum)})
	}

	if len(section.Rows) == 0 {
		return nil
	}
	section.Total = []string{"TOTAL", FormatAmount(ZARSymbol, total)}
	return section
}

// BuildRegularWithdrawals is rendered only when the portfolio has a
// positive regular-withdrawal amount or percentage. It shows the configured
// flow, the withdrawal total since inception (every withdrawal, regular or
// not) and a final total of ad-hoc withdrawals plus the regular amount.
func BuildRegularWithdrawals(p *models.PortfolioDetail) *models.Section {
	if p.RegularWithdrawalAmount <= 0 && p.RegularWithdrawalPercentage <= 0 {
		return nil
	}

	var sinceInception, adHoc float64
	for _, t := range p.Transactions {
		if isAnyWithdrawal(t) {
			sinceInception += t.ConvertedAmount
		}
		if isAdHocWithdrawal(t) {
			adHoc += t.ConvertedAmount
		}
	}

	section := &models.Section{
		Type:   models.SectionRegularWithdrawals,
		Title:  "Regular Withdrawals",
		Header: []string{"", "Amount"},
	}

	if p.RegularWithdrawalAmount > 0 {
		section.Rows = append(section.Rows, []string{"Regular withdrawal amount", FormatAmount(ZARSymbol, p.RegularWithdrawalAmount)})
	}
	if p.RegularWithdrawalPercentage > 0 {
		section.Rows = append(section.Rows, []string{"Regular withdrawal percentage", formatNumber(p.RegularWithdrawalPercentage) + " %"})
	}
	if p.RegularWithdrawalFreq != "" {
		section.Rows = append(section.Rows, []string{"Frequency", p.RegularWithdrawalFreq})
	}
	section.Rows = append(section.Rows, []string{"Withdrawals since inception", FormatAmount(ZARSymbol, sinceInception)})
	section.Total = []string{"TOTAL", FormatAmount(ZARSymbol, adHoc+p.RegularWithdrawalAmount)}

	return section
}

// BuildInteractionHistory produces one sub-table per unique valuation date.
// The first snapshot for a date wins; duplicates are silently skipped.
// Entry names resolve through the portfolio tree, defaulting to "Unknown
// Fund"; local amounts divide the converted amount by the exchange rate,
// or 0 when the rate is 0.
func BuildInteractionHistory(p *models.PortfolioDetail, options models.ReportOptions) []models.Section {
	seen := make(map[string]bool)
	var sections []models.Section

	for _, snapshot := range p.ValuationSnapshots {
		date := dateLabel(snapshot.ConvertedValueDate)
		if seen[date] {
			continue
		}
		seen[date] = true

		if len(snapshot.ValueModels) == 0 {
			continue
		}

		section := models.Section{
			Type:   models.SectionInteractionHistory,
			Title:  "Valuation " + date,
			Header: []string{"Fund", "Amount", "Amount (ZAR)", "Share %"},
		}

		allZAR := true
		var totalLocal, totalZAR float64
		for _, v := range snapshot.ValueModels {
			name := UnknownFund
			if entry := p.FindEntry(v.PortfolioEntryID); entry != nil {
				name = entry.InstrumentName
			}

			local := 0.0
			if v.ExchangeRate != 0 {
				local = v.ConvertedAmount / v.ExchangeRate
			}
			symbol := SymbolFor(snapshot.CurrencyAbbreviation, v.ExchangeRate)
			if symbol != ZARSymbol {
				allZAR = false
			}
			totalLocal += local
			totalZAR += v.ConvertedAmount

			section.Rows = append(section.Rows, []string{
				name,
				FormatAmount(symbol, local),
				FormatAmount(ZARSymbol, v.ConvertedAmount),
				formatNumber(v.PortfolioSharePercentage) + " %",
			})
		}

		if allZAR {
			section.Total = []string{"TOTAL", "", FormatAmount(ZARSymbol, totalZAR), ""}
		} else {
			section.Total = []string{"TOTAL", "", FormatAmount(SymbolFor(options.Currency, 0), totalLocal), ""}
		}
		sections = append(sections, section)
	}

	return sections
}

// BuildPerformance lists period returns for the entries present in the most
// recent valuation snapshot that has at least one value row, searched from
// the end of history backward. Missing or "N/A" periods default to "0 %";
// rows where all three periods are "0 %" are dropped entirely.
func BuildPerformance(p *models.PortfolioDetail, ratings map[string]models.RatingRecord) *models.Section {
	var latest *models.ValuationSnapshot
	for i := len(p.ValuationSnapshots) - 1; i >= 0; i-- {
		if len(p.ValuationSnapshots[i].ValueModels) > 0 {
			latest = &p.ValuationSnapshots[i]
			break
		}
	}
	if latest == nil {
		return nil
	}

	section := &models.Section{
		Type:   models.SectionPerformance,
		Title:  "Performance",
		Header: []string{"Fund", "6 Months", "1 Year", "3 Years"},
	}

	for _, v := range latest.ValueModels {
		entry := p.FindEntry(v.PortfolioEntryID)
		if entry == nil {
			continue
		}

		var record models.RatingRecord
		if ratings != nil {
			record = ratings[models.RatingKeyForEntry(entry)]
		}

		six := ratingCell(record.Rating6Months)
		one := ratingCell(record.Rating1Year)
		three := ratingCell(record.Rating3Years)
		if six == ZeroRating && one == ZeroRating && three == ZeroRating {
			continue
		}

		section.Rows = append(section.Rows, []string{entry.InstrumentName, six, one, three})
	}

	if len(section.Rows) == 0 {
		return nil
	}
	return section
}

// ratingCell formats one period value for the performance table.
func ratingCell(value string) string {
	if !models.HasValue(value) {
		return ZeroRating
	}
	return strings.TrimSpace(value) + " %"
}

// BuildPortfolioSections runs the enabled section builders for one
// portfolio. Sections with no matching data are omitted.
func BuildPortfolioSections(p *models.PortfolioDetail, ratings map[string]models.RatingRecord, options models.ReportOptions) models.PortfolioSections {
	out := models.PortfolioSections{
		InstrumentName:  p.InstrumentName,
		ReferenceNumber: p.ReferenceNumber,
	}

	if options.Contributions {
		if s := BuildContributions(p, options); s != nil {
			out.Sections = append(out.Sections, *s)
		}
	}
	if options.Withdrawals {
		if s := BuildWithdrawals(p); s != nil {
			out.Sections = append(out.Sections, *s)
		}
	}
	if options.RegularWithdrawals {
		if s := BuildRegularWithdrawals(p); s != nil {
			out.Sections = append(out.Sections, *s)
		}
	}
	if options.InteractionHistory {
		out.Sections = append(out.Sections, BuildInteractionHistory(p, options)...)
	}
	if options.IncludePercentage {
		if s := BuildPerformance(p, ratings); s != nil {
			out.Sections = append(out.Sections, *s)
		}
	}

	return out
}

// MostRecentContribution finds the latest contribution transaction across
// all portfolios by date, not by portfolio order.
func MostRecentContribution(portfolios []models.PortfolioDetail) (models.Transaction, bool) {
	var latest models.Transaction
	found := false
	for _, p := range portfolios {
		for _, t := range p.Transactions {
			if !isContribution(t) {
				continue
			}
			if !found || t.TransactionDate.After(latest.TransactionDate) {
				latest = t
				found = true
			}
		}
	}
	return latest, found
}

// DeriveDateOfBirth decodes a date of birth from the first six digits of a
// South African ID number (YYMMDD). The century is "20" when the
// year-of-century is below 22, otherwise "19". Returns false when the ID is
// too short or not numeric.
func DeriveDateOfBirth(idNumber string) (string, bool) {
	if len(idNumber) < 6 {
		return "", false
	}
	digits := idNumber[:6]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	yearOfCentury := (int(digits[0]-'0') * 10) + int(digits[1]-'0')
	century := "19"
	if yearOfCentury < 22 {
		century = "20"
	}

	return century + digits[0:2] + "/" + digits[2:4] + "/" + digits[4:6], true
}
