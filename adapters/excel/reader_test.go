package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"churnscope/domain/core"
	"churnscope/domain/ingestion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *ingestion.RawTable {
	return &ingestion.RawTable{
		Headers: []string{"customerID", "Contract", "TotalCharges"},
		Rows: []ingestion.RawRow{
			{"customerID": "c1", "Contract": "Month-to-month", "TotalCharges": "20.5"},
			{"customerID": "c2", "Contract": "One year", "TotalCharges": " "},
			{"customerID": "c3", "Contract": "Two year", "TotalCharges": "45"},
		},
	}
}

func TestReadTable_NamedSheetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dataset.xlsx")
	require.NoError(t, WriteTable(path, DefaultSheetName, sampleTable()))

	reader := NewDataReader(ExcelConfig{FilePath: path, SheetName: DefaultSheetName})
	table, err := reader.ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"customerID", "Contract", "TotalCharges"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "c1", table.Rows[0]["customerID"])
	assert.Equal(t, "Two year", table.Rows[2]["Contract"])
	assert.Equal(t, "", table.Rows[1]["TotalCharges"])
	assert.Contains(t, table.Source, DefaultSheetName)
}

func TestReadTable_MissingFile(t *testing.T) {
	reader := NewDataReader(ExcelConfig{FilePath: filepath.Join(t.TempDir(), "nope.xlsx")})

	_, err := reader.ReadTable(context.Background())

	require.Error(t, err)
	assert.True(t, core.IsDataUnavailable(err))
}

func TestReadTable_MissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dataset.xlsx")
	require.NoError(t, WriteTable(path, "Other", sampleTable()))

	reader := NewDataReader(ExcelConfig{FilePath: path, SheetName: DefaultSheetName})
	_, err := reader.ReadTable(context.Background())

	require.Error(t, err)
	assert.True(t, core.IsDataUnavailable(err))
}

func TestReadTable_EmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dataset.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", DefaultSheetName))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewDataReader(ExcelConfig{FilePath: path}).ReadTable(context.Background())

	require.Error(t, err)
	assert.True(t, core.IsDataUnavailable(err))
}

func TestReadTable_CorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dataset.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := NewDataReader(ExcelConfig{FilePath: path}).ReadTable(context.Background())

	require.Error(t, err)
	assert.True(t, core.IsDataUnavailable(err))
}

func TestReadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn.csv")
	content := "customerID, Contract ,TotalCharges\nc1,Month-to-month,20.5\n,,\nc2,One year\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reader := NewDataReader(ExcelConfig{FilePath: path})
	table, err := reader.ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"customerID", "Contract", "TotalCharges"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "One year", table.Rows[1]["Contract"])
	_, has := table.Rows[1]["TotalCharges"]
	assert.False(t, has)
	assert.Equal(t, path, reader.Name())
}

func TestReadTable_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDataReader(DefaultExcelConfig()).ReadTable(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

// writeFormattedNumbers stores real numeric cells styled "#,##0.00", as Excel does for
// currency-like columns
func writeFormattedNumbers(t *testing.T, path string, values []float64) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", DefaultSheetName))

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(DefaultSheetName, "A1", "customerID"))
	require.NoError(t, f.SetCellValue(DefaultSheetName, "B1", "TotalCharges"))
	for i, v := range values {
		row := i + 2
		require.NoError(t, f.SetCellValue(DefaultSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("c%d", i+1)))
		cell := fmt.Sprintf("B%d", row)
		require.NoError(t, f.SetCellValue(DefaultSheetName, cell, v))
		require.NoError(t, f.SetCellStyle(DefaultSheetName, cell, cell, style))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadTable_FormattedNumbersReadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dataset.xlsx")
	writeFormattedNumbers(t, path, []float64{1889.5, 108.15, 7000.25})

	table, err := NewDataReader(ExcelConfig{FilePath: path, SheetName: DefaultSheetName}).ReadTable(context.Background())
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "1889.5", table.Rows[0]["TotalCharges"])
	assert.Equal(t, "108.15", table.Rows[1]["TotalCharges"])
	assert.Equal(t, "7000.25", table.Rows[2]["TotalCharges"])
}
