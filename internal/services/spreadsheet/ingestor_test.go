package spreadsheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/models"
	"github.com/ternarybob/clientfolio/internal/services/match"
	"github.com/ternarybob/clientfolio/internal/services/ratings"
)

func newTestIngestor(t *testing.T) (*Ingestor, *ratings.Service) {
	t.Helper()
	logger := common.GetLogger()
	store := ratings.NewService(nil, logger)
	require.NoError(t, store.Load(context.Background(), "client-1"))
	return NewIngestor(match.NewService(), store, logger), store
}

func TestIngestMatchedRow(t *testing.T) {
	ingestor, store := newTestIngestor(t)
	entries := []models.PortfolioEntry{
		{InstrumentName: "Global Equity Fund", IsinNumber: "US123"},
	}
	rows := []models.Row{
		{"Name": "Global Equity Fund", "1 Year": "8.5", "3 Years Annualised": "6.2"},
	}

	result, err := ingestor.Ingest(context.Background(), rows, entries)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 0, result.Skipped)

	record, err := store.Get("Global Equity Fund::US123")
	require.NoError(t, err)
	assert.Equal(t, "8.5", record.Rating1Year)
	assert.Equal(t, "6.2", record.Rating3Years)
}

func TestIngestAliasPrecedence(t *testing.T) {
	ingestor, store := newTestIngestor(t)
	entries := []models.PortfolioEntry{
		{InstrumentName: "Global Equity Fund", IsinNumber: "US123"},
	}
	rows := []models.Row{
		{
			"Name":                  "Global Equity Fund",
			"12 Month Return":       "9.9",
			"1 Year":                "8.5",
			"36 Month Return (ann)": "7.7",
			"3 Years Annualised":    "6.2",
		},
	}

	_, err := ingestor.Ingest(context.Background(), rows, entries)
	require.NoError(t, err)

	record, err := store.Get("Global Equity Fund::US123")
	require.NoError(t, err)
	assert.Equal(t, "9.9", record.Rating1Year)
	assert.Equal(t, "7.7", record.Rating3Years)
}

func TestIngestKeyedFromMatchedEntry(t *testing.T) {
	ingestor, store := newTestIngestor(t)
	entries := []models.PortfolioEntry{
		{InstrumentName: "Global Equity Fund", IsinNumber: "US123"},
	}
	// Tenfore id: 5-char prefix then the ISIN
	rows := []models.Row{
		{"Legal Name": "Glbl Equity Fnd", "ExportFile_TenforeId": "252/1US123", "1 Year": "5.0"},
	}

	result, err := ingestor.Ingest(context.Background(), rows, entries)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)

	// Keyed from the matched entry, not the raw row name
	record, err := store.Get("Global Equity Fund::US123")
	require.NoError(t, err)
	assert.Equal(t, "Global Equity Fund", record.InstrumentName)
	assert.Equal(t, "5.0", record.Rating1Year)
}

func TestIngestSkipsUnmatchedRows(t *testing.T) {
	ingestor, store := newTestIngestor(t)
	entries := []models.PortfolioEntry{
		{InstrumentName: "Global Equity Fund", IsinNumber: "US123"},
	}
	rows := []models.Row{
		{"Name": "Totally Unrelated Instrument", "1 Year": "1.0"},
		{"Name": "Global Equity Fund", "1 Year": "8.5"},
	}

	result, err := ingestor.Ingest(context.Background(), rows, entries)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, store.Keys(), 1)
}

func TestIsinFromTenforeID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"prefix stripped", "252/1US1234567890", "US1234567890"},
		{"too short", "2521", ""},
		{"empty", "", ""},
		{"exactly prefix length", "252/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isinFromTenforeID(tt.id); got != tt.want {
				t.Errorf("isinFromTenforeID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
