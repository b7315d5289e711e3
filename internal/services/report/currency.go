package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currencySymbols maps ISO-like currency codes to the display symbols used
// on reports.
var currencySymbols = map[string]string{
	"ZAR": "R",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF",
	"CNY": "¥",
	"INR": "₹",
	"MXN": "MX$",
}

// ZARSymbol is the rand display symbol; the "all rows are ZAR" total
// heuristic compares against it.
const ZARSymbol = "R"

// SymbolFor returns the display symbol for a currency code. An exchange
// rate of 1, or the ZAR code itself, forces the rand symbol regardless of
// the code supplied. Codes outside the fixed table fall back to the
// currency's registered grapheme, then to the code itself.
func SymbolFor(code string, exchangeRate float64) string {
	if exchangeRate == 1 || strings.EqualFold(code, "ZAR") {
		return ZARSymbol
	}
	if symbol, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return symbol
	}
	if cur := money.GetCurrency(strings.ToUpper(code)); cur != nil && cur.Grapheme != "" {
		return cur.Grapheme
	}
	return code
}

// FormatAmount renders an amount with the symbol, two decimal places and
// thousands separators, e.g. "R 5,000.00".
func FormatAmount(symbol string, amount float64) string {
	return symbol + " " + formatNumber(amount)
}

// formatNumber formats a float to two decimals with comma separators.
func formatNumber(amount float64) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
