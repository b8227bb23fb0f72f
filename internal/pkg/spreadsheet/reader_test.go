package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, lines [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &line))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadTrimsHeaders(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{" University ID ", "Full Name "},
		{"U100", "Ayse Demir"},
	})

	headers, rows, err := NewExcelReader().Read(buf)

	require.NoError(t, err)
	assert.Equal(t, []string{"University ID", "Full Name"}, headers)
	require.Len(t, rows, 1)

	name, ok := rows[0].Get("Full Name")
	assert.True(t, ok)
	assert.Equal(t, "Ayse Demir", name)
}

func TestReadSkipsBlankRowsKeepingNumbers(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"University ID", "Full Name"},
		{"U100", "Ayse Demir"},
		{"", ""},
		{"U101", "Mehmet Kaya"},
	})

	_, rows, err := NewExcelReader().Read(buf)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, 4, rows[1].Number)
}

func TestReadPadsShortRows(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"University ID", "Full Name", "Email"},
		{"U100", "Ayse Demir"},
	})

	_, rows, err := NewExcelReader().Read(buf)

	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, ok := rows[0].Get("Email")
	assert.False(t, ok)
}

func TestRowGetTrimsValues(t *testing.T) {
	row := Row{Number: 2, Values: map[string]string{"Email": "  a@b.edu  ", "Stage": "   "}}

	email, ok := row.Get("Email")
	assert.True(t, ok)
	assert.Equal(t, "a@b.edu", email)

	_, ok = row.Get("Stage")
	assert.False(t, ok)

	_, ok = row.Get("Missing")
	assert.False(t, ok)
}

func TestReadEmptyWorkbook(t *testing.T) {
	buf := buildWorkbook(t, nil)

	_, _, err := NewExcelReader().Read(buf)

	assert.ErrorIs(t, err, ErrNoData)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, _, err := NewExcelReader().Read(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
