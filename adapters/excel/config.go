package excel

// ExcelConfig holds configuration for a spreadsheet data source
type ExcelConfig struct {
	FilePath  string `json:"file_path"`
	SheetName string `json:"sheet_name"` // Ignored for CSV files
}

// DefaultExcelConfig returns sensible defaults for the churn workbook
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FilePath:  "Dataset.xlsx",
		SheetName: DefaultSheetName,
	}
}
