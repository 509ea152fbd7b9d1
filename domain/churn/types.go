package churn

import (
	"strconv"
)

// Column names the pipeline interprets. Everything else is carried as passthrough.
const (
	ColumnContract        = "Contract"
	ColumnInternetService = "InternetService"
	ColumnTotalCharges    = "TotalCharges"
	ColumnMonthlyCharges  = "MonthlyCharges"
	ColumnTenure          = "tenure"
	ColumnChurn           = "Churn"
	ColumnPaymentMethod   = "PaymentMethod"
)

// RequiredColumns must all be present in a source for it to load
var RequiredColumns = []string{
	ColumnContract,
	ColumnInternetService,
	ColumnTotalCharges,
	ColumnMonthlyCharges,
	ColumnTenure,
	ColumnChurn,
}

// ChurnYes is the Churn value that marks a customer who left
const ChurnYes = "Yes"

// ChurnNo is the Churn value for a retained customer
const ChurnNo = "No"

// CustomerRecord is one row of the churn table
type CustomerRecord struct {
	Contract        string
	InternetService string
	TotalCharges    float64
	MonthlyCharges  float64
	Tenure          int
	Churn           string

	// TotalChargesImputed is set when TotalCharges was repaired at load time
	TotalChargesImputed bool

	extra map[string]string
}

// NewCustomerRecord builds a record; extra holds passthrough columns by header
func NewCustomerRecord(contract, internetService string, totalCharges, monthlyCharges float64, tenure int, churnValue string, extra map[string]string) CustomerRecord {
	copied := make(map[string]string, len(extra))
	for k, v := range extra {
		copied[k] = v
	}
	return CustomerRecord{
		Contract:        contract,
		InternetService: internetService,
		TotalCharges:    totalCharges,
		MonthlyCharges:  monthlyCharges,
		Tenure:          tenure,
		Churn:           churnValue,
		extra:           copied,
	}
}

// Churned reports whether the customer churned
func (r CustomerRecord) Churned() bool {
	return r.Churn == ChurnYes
}

// Value returns the cell text for any column, typed or passthrough
func (r CustomerRecord) Value(column string) (string, bool) {
	switch column {
	case ColumnContract:
		return r.Contract, true
	case ColumnInternetService:
		return r.InternetService, true
	case ColumnTotalCharges:
		return formatFloat(r.TotalCharges), true
	case ColumnMonthlyCharges:
		return formatFloat(r.MonthlyCharges), true
	case ColumnTenure:
		return strconv.Itoa(r.Tenure), true
	case ColumnChurn:
		return r.Churn, true
	}
	v, ok := r.extra[column]
	return v, ok
}

// Numeric returns the column as a number when it has one
func (r CustomerRecord) Numeric(column string) (float64, bool) {
	switch column {
	case ColumnTotalCharges:
		return r.TotalCharges, true
	case ColumnMonthlyCharges:
		return r.MonthlyCharges, true
	case ColumnTenure:
		return float64(r.Tenure), true
	case ColumnContract, ColumnInternetService, ColumnChurn:
		return 0, false
	}
	v, ok := r.extra[column]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Dataset is an ordered, read-only collection of customer records sharing one header list.
// A Dataset is never mutated after construction, so it can be shared across goroutines.
type Dataset struct {
	headers []string
	records []CustomerRecord
}

// NewDataset copies headers and records into a new Dataset
func NewDataset(headers []string, records []CustomerRecord) *Dataset {
	h := make([]string, len(headers))
	copy(h, headers)
	r := make([]CustomerRecord, len(records))
	copy(r, records)
	return &Dataset{headers: h, records: r}
}

// Headers returns the column names in source order
func (d *Dataset) Headers() []string {
	h := make([]string, len(d.headers))
	copy(h, d.headers)
	return h
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// IsEmpty reports whether the dataset has no rows
func (d *Dataset) IsEmpty() bool {
	return len(d.records) == 0
}

// Record returns the i-th record
func (d *Dataset) Record(i int) CustomerRecord {
	return d.records[i]
}

// Records returns a copy of all records in order
func (d *Dataset) Records() []CustomerRecord {
	r := make([]CustomerRecord, len(d.records))
	copy(r, d.records)
	return r
}

// Head returns up to n leading records
func (d *Dataset) Head(n int) []CustomerRecord {
	if n > len(d.records) {
		n = len(d.records)
	}
	if n < 0 {
		n = 0
	}
	r := make([]CustomerRecord, n)
	copy(r, d.records[:n])
	return r
}

// Column returns every record's text value for column
func (d *Dataset) Column(column string) []string {
	values := make([]string, len(d.records))
	for i, rec := range d.records {
		values[i], _ = rec.Value(column)
	}
	return values
}

// ChurnedCount counts records with Churn == "Yes"
func (d *Dataset) ChurnedCount() int {
	n := 0
	for _, rec := range d.records {
		if rec.Churned() {
			n++
		}
	}
	return n
}

// FilterSelection is the user's choice of contract and internet-service values.
// Values are kept in the order they were given, without duplicates.
type FilterSelection struct {
	Contracts        []string `json:"contracts"`
	InternetServices []string `json:"internet_services"`
}
