package views

import (
	"math"
	"sort"

	"churnscope/adapters/coercer"
	"churnscope/domain/churn"

	"gonum.org/v1/gonum/stat"
)

// BuildCorrelations computes the Pearson matrix over numeric columns and every column's
// correlation with Churn after label-encoding the text columns. Missing cells are
// dropped pairwise; pairs with fewer than two observations or no variance are NaN.
func BuildCorrelations(ds *churn.Dataset) Correlations {
	headers := ds.Headers()
	records := ds.Records()

	numeric := make(map[string][]float64)
	var numericColumns []string
	for _, h := range headers {
		if values, ok := numericColumn(records, h); ok {
			numeric[h] = values
			numericColumns = append(numericColumns, h)
		}
	}

	matrix := CorrelationMatrix{
		Columns: append([]string{}, numericColumns...),
		Values:  make([][]Coefficient, len(numericColumns)),
	}
	for i, a := range numericColumns {
		row := make([]Coefficient, len(numericColumns))
		for j, b := range numericColumns {
			if j < i {
				row[j] = matrix.Values[j][i]
				continue
			}
			row[j] = Coefficient(pearson(numeric[a], numeric[b]))
		}
		matrix.Values[i] = row
	}

	return Correlations{Matrix: matrix, WithChurn: churnCorrelations(headers, records, numeric)}
}

func churnCorrelations(headers []string, records []churn.CustomerRecord, numeric map[string][]float64) []FeatureCorrelation {
	encoded := make(map[string][]float64, len(headers))
	for _, h := range headers {
		if values, ok := numeric[h]; ok {
			encoded[h] = values
			continue
		}
		encoded[h] = labelEncode(records, h)
	}

	target, ok := encoded[churn.ColumnChurn]
	if !ok {
		return []FeatureCorrelation{}
	}

	out := make([]FeatureCorrelation, 0, len(headers))
	for _, h := range headers {
		out = append(out, FeatureCorrelation{Column: h, Value: Coefficient(pearson(encoded[h], target))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if a.IsNaN() {
			return false
		}
		if b.IsNaN() {
			return true
		}
		return a > b
	})
	return out
}

// cells decides which passthrough columns are numeric, with the loader's missing tokens
var cells = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())

// numericColumn returns the column as floats with NaN for missing cells. A passthrough
// column is numeric when every non-missing cell parses; the typed numeric columns always are.
func numericColumn(records []churn.CustomerRecord, column string) ([]float64, bool) {
	switch column {
	case churn.ColumnTenure, churn.ColumnMonthlyCharges, churn.ColumnTotalCharges:
		values := make([]float64, len(records))
		for i, rec := range records {
			values[i], _ = rec.Numeric(column)
		}
		return values, true
	case churn.ColumnContract, churn.ColumnInternetService, churn.ColumnChurn:
		return nil, false
	}

	raw := make([]string, len(records))
	for i, rec := range records {
		raw[i], _ = rec.Value(column)
	}
	return cells.NumericValues(raw)
}

// labelEncode maps each distinct value to its index in sorted order
func labelEncode(records []churn.CustomerRecord, column string) []float64 {
	raw := make([]string, len(records))
	seen := map[string]bool{}
	var distinct []string
	for i, rec := range records {
		raw[i], _ = rec.Value(column)
		if !seen[raw[i]] {
			seen[raw[i]] = true
			distinct = append(distinct, raw[i])
		}
	}
	sort.Strings(distinct)

	index := make(map[string]float64, len(distinct))
	for i, v := range distinct {
		index[v] = float64(i)
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = index[v]
	}
	return out
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
