package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, cells := range rows {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseSimpleSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "1 Year", "3 Years Annualised"},
		{"Global Equity Fund", "8.5", "6.2"},
		{"Local Bond Fund", "4.1", ""},
	})

	rows, err := NewParser(common.GetLogger()).Parse(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Global Equity Fund", rows[0].Get("Name"))
	assert.Equal(t, "8.5", rows[0].Get("1 Year"))
	assert.Equal(t, "4.1", rows[1].Get("1 Year"))
}

func TestParseSkipsPreambleUsingMarker(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Fund performance export"},
		{"Generated", "2024-06-01"},
		{"Text", "Name", "1 Year"},
		{"row1", "Global Equity Fund", "8.5"},
	})

	rows, err := NewParser(common.GetLogger()).Parse(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Global Equity Fund", rows[0].Get("Name"))
}

func TestParseEmptySheet(t *testing.T) {
	data := buildWorkbook(t, nil)

	rows, err := NewParser(common.GetLogger()).Parse(data)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseGarbageBytes(t *testing.T) {
	_, err := NewParser(common.GetLogger()).Parse([]byte("not a workbook"))
	assert.Error(t, err)
}

func TestRowGetIsCaseInsensitive(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"LEGAL NAME", "1 year"},
		{"Global Equity Fund", "8.5"},
	})

	rows, err := NewParser(common.GetLogger()).Parse(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Global Equity Fund", rows[0].Get("Legal Name", "Name"))
	assert.Equal(t, "8.5", rows[0].Get("12 Month Return", "1 Year"))
}
