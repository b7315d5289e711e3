package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/clientfolio/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func zarTx(txType string, date time.Time, amount float64) models.Transaction {
	return models.Transaction{
		TransactionDate:      date,
		TransactionType:      txType,
		ConvertedAmount:      amount,
		CurrencyAbbreviation: "ZAR",
		ExchangeRate:         1,
	}
}

func TestBuildContributions(t *testing.T) {
	options := models.NewReportOptions()

	t.Run("single contribution", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Contribution", day(2024, 1, 10), 5000),
		}}
		s := BuildContributions(p, options)
		require.NotNil(t, s)
		require.Len(t, s.Rows, 1)
		assert.Equal(t, "2024/01/10", s.Rows[0][0])
		assert.Equal(t, "R 5,000.00", s.Rows[0][2])
		assert.Equal(t, []string{"TOTAL", "", "R 5,000.00"}, s.Total)
	})

	t.Run("grouped by calendar date", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Contribution", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 1000),
			zarTx("Contribution", time.Date(2024, 1, 10, 17, 30, 0, 0, time.UTC), 2000),
			zarTx("Contribution", day(2024, 2, 1), 500),
		}}
		s := BuildContributions(p, options)
		require.NotNil(t, s)
		require.Len(t, s.Rows, 2)
		assert.Equal(t, "R 3,000.00", s.Rows[0][2])
		assert.Equal(t, "R 500.00", s.Rows[1][2])
	})

	t.Run("net zero dates excluded", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Contribution", day(2024, 1, 10), 1000),
			zarTx("Contribution", day(2024, 1, 10), -1000),
		}}
		assert.Nil(t, BuildContributions(p, options))
	})

	t.Run("non contribution types ignored", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Withdrawal", day(2024, 1, 10), 1000),
		}}
		assert.Nil(t, BuildContributions(p, options))
	})

	t.Run("foreign rows switch total to report currency", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Contribution", day(2024, 1, 10), 1000),
			{
				TransactionDate:      day(2024, 2, 10),
				TransactionType:      "Contribution",
				ConvertedAmount:      1850,
				CurrencyAbbreviation: "USD",
				ExchangeRate:         18.5,
			},
		}}
		opts := models.NewReportOptions()
		opts.Currency = "USD"
		s := BuildContributions(p, opts)
		require.NotNil(t, s)
		require.Len(t, s.Rows, 2)
		// Total in the report currency: 1000 local (ZAR) + 100 local (USD)
		assert.Equal(t, []string{"TOTAL", "", "$ 1,100.00"}, s.Total)
	})
}

func TestBuildWithdrawalsCancellation(t *testing.T) {
	t.Run("exact sign inverse pair cancels", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Withdrawal", day(2024, 3, 5), 1000),
			zarTx("Withdrawal", day(2024, 3, 5), -1000),
		}}
		assert.Nil(t, BuildWithdrawals(p))
	})

	t.Run("cancellation only within same date", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Withdrawal", day(2024, 3, 5), 1000),
			zarTx("Withdrawal", day(2024, 3, 6), -1000),
		}}
		s := BuildWithdrawals(p)
		require.NotNil(t, s)
		assert.Len(t, s.Rows, 2)
	})

	t.Run("unpaired amounts survive", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Withdrawal", day(2024, 3, 5), 1000),
			zarTx("Withdrawal", day(2024, 3, 5), -1000),
			zarTx("Withdrawal", day(2024, 3, 5), 700),
		}}
		s := BuildWithdrawals(p)
		require.NotNil(t, s)
		require.Len(t, s.Rows, 1)
		assert.Equal(t, "R 700.00", s.Rows[0][1])
	})

	t.Run("regular withdrawals excluded", func(t *testing.T) {
		p := &models.PortfolioDetail{Transactions: []models.Transaction{
			zarTx("Regular Withdrawal", day(2024, 3, 5), 500),
		}}
		assert.Nil(t, BuildWithdrawals(p))
	})
}

func TestBuildRegularWithdrawals(t *testing.T) {
	t.Run("skipped without configured flow", func(t *testing.T) {
		p := &models.PortfolioDetail{}
		assert.Nil(t, BuildRegularWithdrawals(p))
	})

	t.Run("since inception includes regular withdrawals", func(t *testing.T) {
		p := &models.PortfolioDetail{
			RegularWithdrawalAmount: 2000,
			Transactions: []models.Transaction{
				zarTx("Withdrawal", day(2023, 5, 1), 1500),
				zarTx("Regular Withdrawal", day(2023, 6, 1), 2000),
			},
		}
		s := BuildRegularWithdrawals(p)
		require.NotNil(t, s)

		var sinceInception string
		for _, row := range s.Rows {
			if row[0] == "Withdrawals since inception" {
				sinceInception = row[1]
			}
		}
		assert.Equal(t, "R 3,500.00", sinceInception)
		// Final total: ad-hoc withdrawals (1500) plus the regular amount
		assert.Equal(t, []string{"TOTAL", "R 3,500.00"}, s.Total)
	})

	t.Run("percentage only", func(t *testing.T) {
		p := &models.PortfolioDetail{RegularWithdrawalPercentage: 4}
		s := BuildRegularWithdrawals(p)
		require.NotNil(t, s)
		assert.Equal(t, "4.00 %", s.Rows[0][1])
	})
}

func TestBuildInteractionHistory(t *testing.T) {
	options := models.NewReportOptions()
	entries := []models.PortfolioEntry{
		{PortfolioEntryID: "e1", InstrumentName: "Global Equity Fund", IsinNumber: "US123", IsLowestLevel: true},
	}

	t.Run("duplicate dates first occurrence wins", func(t *testing.T) {
		p := &models.PortfolioDetail{
			Entries: entries,
			ValuationSnapshots: []models.ValuationSnapshot{
				{
					ConvertedValueDate:   day(2024, 6, 1),
					CurrencyAbbreviation: "ZAR",
					ValueModels:          []models.EntryValue{{PortfolioEntryID: "e1", ExchangeRate: 1, ConvertedAmount: 10000, PortfolioSharePercentage: 100}},
				},
				{
					ConvertedValueDate:   day(2024, 6, 1),
					CurrencyAbbreviation: "ZAR",
					ValueModels:          []models.EntryValue{{PortfolioEntryID: "e1", ExchangeRate: 1, ConvertedAmount: 99999, PortfolioSharePercentage: 100}},
				},
			},
		}
		sections := BuildInteractionHistory(p, options)
		require.Len(t, sections, 1)
		assert.Equal(t, "R 10,000.00", sections[0].Rows[0][2])
	})

	t.Run("unknown entry id defaults fund name", func(t *testing.T) {
		p := &models.PortfolioDetail{
			ValuationSnapshots: []models.ValuationSnapshot{
				{
					ConvertedValueDate:   day(2024, 6, 1),
					CurrencyAbbreviation: "ZAR",
					ValueModels:          []models.EntryValue{{PortfolioEntryID: "missing", ExchangeRate: 1, ConvertedAmount: 500}},
				},
			},
		}
		sections := BuildInteractionHistory(p, options)
		require.Len(t, sections, 1)
		assert.Equal(t, UnknownFund, sections[0].Rows[0][0])
	})

	t.Run("zero exchange rate yields zero local amount", func(t *testing.T) {
		p := &models.PortfolioDetail{
			Entries: entries,
			ValuationSnapshots: []models.ValuationSnapshot{
				{
					ConvertedValueDate:   day(2024, 6, 1),
					CurrencyAbbreviation: "USD",
					ValueModels:          []models.EntryValue{{PortfolioEntryID: "e1", ExchangeRate: 0, ConvertedAmount: 500}},
				},
			},
		}
		sections := BuildInteractionHistory(p, options)
		require.Len(t, sections, 1)
		assert.Equal(t, "$ 0.00", sections[0].Rows[0][1])
	})
}

func TestBuildPerformance(t *testing.T) {
	entries := []models.PortfolioEntry{
		{PortfolioEntryID: "e1", InstrumentName: "Global Equity Fund", IsinNumber: "US123", IsLowestLevel: true},
		{PortfolioEntryID: "e2", InstrumentName: "Local Bond Fund", IsinNumber: "ZAE01", IsLowestLevel: true},
	}
	snapshots := []models.ValuationSnapshot{
		{
			ConvertedValueDate: day(2024, 5, 1),
			ValueModels:        []models.EntryValue{{PortfolioEntryID: "e1"}},
		},
		{
			ConvertedValueDate: day(2024, 6, 1),
			ValueModels: []models.EntryValue{
				{PortfolioEntryID: "e1"},
				{PortfolioEntryID: "e2"},
			},
		},
		{ConvertedValueDate: day(2024, 7, 1)}, // empty, skipped in backward search
	}
	p := &models.PortfolioDetail{Entries: entries, ValuationSnapshots: snapshots}

	t.Run("uses latest non-empty snapshot and defaults", func(t *testing.T) {
		ratings := map[string]models.RatingRecord{
			"Global Equity Fund::US123": {Rating1Year: "8.5", Rating3Years: "N/A"},
		}
		s := BuildPerformance(p, ratings)
		require.NotNil(t, s)
		// e2 has no rating at all: all periods "0 %", dropped entirely
		require.Len(t, s.Rows, 1)
		assert.Equal(t, []string{"Global Equity Fund", "0 %", "8.5 %", "0 %"}, s.Rows[0])
	})

	t.Run("nil when no snapshot has rows", func(t *testing.T) {
		empty := &models.PortfolioDetail{ValuationSnapshots: []models.ValuationSnapshot{{ConvertedValueDate: day(2024, 7, 1)}}}
		assert.Nil(t, BuildPerformance(empty, nil))
	})

	t.Run("nil when every row is all zero", func(t *testing.T) {
		assert.Nil(t, BuildPerformance(p, nil))
	})
}

func TestMostRecentContribution(t *testing.T) {
	portfolios := []models.PortfolioDetail{
		{Transactions: []models.Transaction{zarTx("Contribution", day(2024, 1, 10), 5000)}},
		{Transactions: []models.Transaction{
			zarTx("Contribution", day(2024, 3, 2), 700),
			zarTx("Withdrawal", day(2024, 5, 1), 100),
		}},
	}

	latest, ok := MostRecentContribution(portfolios)
	require.True(t, ok)
	// Latest by date across portfolios, not by portfolio order
	assert.Equal(t, day(2024, 3, 2), latest.TransactionDate)

	_, ok = MostRecentContribution(nil)
	assert.False(t, ok)
}

func TestDeriveDateOfBirth(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		want   string
		wantOK bool
	}{
		{"eighties id", "8501015009087", "1985/01/01", true},
		{"two-thousands id", "2103058800083", "2021/03/05", true},
		{"boundary year 22 maps to 1922", "2201015009087", "1922/01/01", true},
		{"boundary year 21 maps to 2021", "2101015009087", "2021/01/01", true},
		{"too short", "85010", "", false},
		{"non numeric", "85A101", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveDateOfBirth(tt.id)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DeriveDateOfBirth(%q) = (%q, %v), want (%q, %v)", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
