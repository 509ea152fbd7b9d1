package excel

// DefaultSheetName is the sheet the churn workbook ships with
const DefaultSheetName = "01 Churn-Dataset"

const (
	fileTypeXLSX = "xlsx"
	fileTypeCSV  = "csv"
)
