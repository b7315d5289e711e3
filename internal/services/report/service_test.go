package report

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/models"
)

func contributionsOnly() models.ReportOptions {
	return models.ReportOptions{
		Contributions: true,
		Currency:      "ZAR",
	}
}

func TestComposeNilClient(t *testing.T) {
	svc := NewService(common.GetLogger())
	_, err := svc.Compose(nil, nil, nil, models.NewReportOptions())
	assert.Error(t, err)
}

func TestComposeSingleContribution(t *testing.T) {
	svc := NewService(common.GetLogger())
	client := &models.ClientRecord{
		FirstNames: "Jane",
		Surname:    "Smith",
		IDNumber:   "8501015009087",
		Portfolios: []models.PortfolioDetail{
			{
				InstrumentName: "Retirement Annuity",
				Transactions: []models.Transaction{
					zarTx("Contribution", day(2024, 1, 10), 5000),
				},
			},
		},
	}

	doc, err := svc.Compose(client, nil, nil, contributionsOnly())
	require.NoError(t, err)

	// One header page plus exactly one portfolio page
	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, "Jane Smith", doc.ClientName)
	assert.NotEmpty(t, doc.ID)

	decoded, err := base64.StdEncoding.DecodeString(doc.Base64)
	require.NoError(t, err)
	assert.Equal(t, doc.PDF, decoded)
	assert.True(t, len(decoded) > 4 && string(decoded[:4]) == "%PDF")
}

func TestComposeEmptyPortfolioContributesNoPages(t *testing.T) {
	svc := NewService(common.GetLogger())
	client := &models.ClientRecord{
		FirstNames: "Jane",
		Surname:    "Smith",
		Portfolios: []models.PortfolioDetail{
			{InstrumentName: "Dormant Product"},
		},
	}

	options := models.ReportOptions{
		Contributions:      true,
		Withdrawals:        true,
		RegularWithdrawals: true,
		InteractionHistory: true,
		IncludePercentage:  false,
		Currency:           "ZAR",
	}

	doc, err := svc.Compose(client, nil, nil, options)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount)
}

func TestComposePerformanceRequestKeepsPortfolioPage(t *testing.T) {
	svc := NewService(common.GetLogger())
	client := &models.ClientRecord{
		Surname: "Smith",
		Portfolios: []models.PortfolioDetail{
			{InstrumentName: "Dormant Product"},
		},
	}

	options := models.ReportOptions{IncludePercentage: true, Currency: "ZAR"}

	doc, err := svc.Compose(client, nil, nil, options)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount)
}

func TestComposeDoesNotMutateClient(t *testing.T) {
	svc := NewService(common.GetLogger())
	client := &models.ClientRecord{
		Surname: "Smith",
		Portfolios: []models.PortfolioDetail{
			{InstrumentName: "A"},
			{InstrumentName: "B"},
		},
	}

	selected := []models.PortfolioDetail{client.Portfolios[0]}
	_, err := svc.Compose(client, selected, nil, contributionsOnly())
	require.NoError(t, err)

	assert.Len(t, client.Portfolios, 2)
}

func TestComposeSelectedSubset(t *testing.T) {
	svc := NewService(common.GetLogger())
	withData := models.PortfolioDetail{
		InstrumentName: "Active",
		Transactions:   []models.Transaction{zarTx("Contribution", day(2024, 1, 10), 100)},
	}
	client := &models.ClientRecord{
		Surname:    "Smith",
		Portfolios: []models.PortfolioDetail{withData, withData, withData},
	}

	doc, err := svc.Compose(client, []models.PortfolioDetail{withData}, nil, contributionsOnly())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount)
}

func TestComposeManySectionsPaginate(t *testing.T) {
	svc := NewService(common.GetLogger())

	// Enough valuation dates that the sub-tables cannot fit on one page
	var snapshots []models.ValuationSnapshot
	for m := 1; m <= 12; m++ {
		for d := 1; d <= 2; d++ {
			snapshots = append(snapshots, models.ValuationSnapshot{
				ConvertedValueDate:   day(2023, 1, m*2+d),
				CurrencyAbbreviation: "ZAR",
				ValueModels: []models.EntryValue{
					{PortfolioEntryID: "e1", ExchangeRate: 1, ConvertedAmount: 1000, PortfolioSharePercentage: 100},
				},
			})
		}
	}
	client := &models.ClientRecord{
		Surname: "Smith",
		Portfolios: []models.PortfolioDetail{
			{
				InstrumentName:     "Unit Trust",
				Entries:            []models.PortfolioEntry{{PortfolioEntryID: "e1", InstrumentName: "Fund"}},
				ValuationSnapshots: snapshots,
			},
		},
	}

	options := models.ReportOptions{InteractionHistory: true, Currency: "ZAR"}
	doc, err := svc.Compose(client, nil, nil, options)
	require.NoError(t, err)
	assert.Greater(t, doc.PageCount, 2)
}
