package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"churnscope/domain/core"
	"churnscope/domain/ingestion"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath  string
	sheetName string
	fileType  string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := fileTypeXLSX
	if ext == ".csv" {
		fileType = fileTypeCSV
	}
	sheet := config.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &DataReader{filePath: config.FilePath, sheetName: sheet, fileType: fileType}
}

// Name identifies the source in logs and load reports
func (r *DataReader) Name() string {
	if r.fileType == fileTypeCSV {
		return r.filePath
	}
	return fmt.Sprintf("%s[%s]", r.filePath, r.sheetName)
}

// ReadTable reads the whole sheet or CSV file into a raw table
func (r *DataReader) ReadTable(ctx context.Context) (*ingestion.RawTable, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, core.NewDataUnavailableError(r.Name(), err)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case fileTypeCSV:
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, core.NewDataUnavailableError(r.Name(), err)
	}

	if len(rows) < 1 {
		return nil, core.NewDataUnavailableError(r.Name(), fmt.Errorf("no header row"))
	}

	return r.processRows(rows), nil
}

// readExcelRows reads the configured sheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	if idx, err := f.GetSheetIndex(r.sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (have %v)", r.sheetName, f.GetSheetList())
	}

	readStart := time.Now()
	// Raw values, so a number shown as "1,889.50" still reads as 1889.5
	rows, err := f.GetRows(r.sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", r.sheetName, err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", r.sheetName, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return rows, nil
}

// readCSVRows reads CSV data; ragged rows are allowed
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return rows, nil
}

// processRows converts raw string rows into a RawTable, skipping fully blank rows
func (r *DataReader) processRows(rows [][]string) *ingestion.RawTable {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]ingestion.RawRow, 0, len(rows)-1)
	skipped := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			skipped++
			continue
		}

		rowData := make(ingestion.RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	if skipped > 0 {
		log.Printf("[DataReader] Skipped %d blank rows", skipped)
	}
	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ingestion.RawTable{
		Source:  r.Name(),
		Headers: headers,
		Rows:    dataRows,
	}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
