package dataset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"churnscope/adapters/coercer"
	"churnscope/domain/churn"
	"churnscope/domain/core"
	"churnscope/domain/ingestion"
	"churnscope/internal"
	"churnscope/ports"

	"github.com/montanaflynn/stats"
)

// LoadReport summarizes one load for logs, the status endpoint and the CLI
type LoadReport struct {
	Source              string        `json:"source"`
	Rows                int           `json:"rows"`
	Columns             int           `json:"columns"`
	ImputedTotalCharges int           `json:"imputed_total_charges"`
	TotalChargesMedian  float64       `json:"total_charges_median"`
	Duration            time.Duration `json:"duration"`
	LoadedAt            time.Time     `json:"loaded_at"`
}

// Loader turns a raw source table into the canonical Dataset
type Loader struct {
	source  ports.DataSource
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewLoader creates a loader over source with the default coercion rules
func NewLoader(source ports.DataSource) *Loader {
	return &Loader{
		source:  source,
		coercer: coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		logger:  internal.DefaultLogger.With("Loader"),
	}
}

// Load reads the source and builds the Dataset. Unparseable TotalCharges cells are
// replaced with the median of the parseable ones; anything else that does not fit
// the schema is a core.ErrSchemaMismatch.
func (l *Loader) Load(ctx context.Context) (*churn.Dataset, *LoadReport, error) {
	start := time.Now()

	table, err := l.source.ReadTable(ctx)
	if err != nil {
		if core.IsDataUnavailable(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		return nil, nil, core.NewDataUnavailableError(l.source.Name(), err)
	}

	ds, imputed, median, err := l.Build(table)
	if err != nil {
		return nil, nil, err
	}

	report := &LoadReport{
		Source:              l.source.Name(),
		Rows:                ds.Len(),
		Columns:             len(table.Headers),
		ImputedTotalCharges: imputed,
		TotalChargesMedian:  median,
		Duration:            time.Since(start),
		LoadedAt:            time.Now(),
	}
	l.logger.Info("Loaded %d rows from %s in %s (%d TotalCharges imputed with median %.2f)",
		report.Rows, report.Source, report.Duration, imputed, median)

	return ds, report, nil
}

// Build converts a raw table into a Dataset and returns how many TotalCharges
// cells were imputed and the median used
func (l *Loader) Build(table *ingestion.RawTable) (*churn.Dataset, int, float64, error) {
	if missing := table.MissingColumns(churn.RequiredColumns); len(missing) > 0 {
		return nil, 0, 0, core.NewMissingColumnsError(missing)
	}

	totals := l.coercer.CoerceColumn(table.Column(churn.ColumnTotalCharges))
	filled, median, err := imputeMedian(totals)
	if err != nil {
		return nil, 0, 0, err
	}

	typed := make(map[string]bool, len(churn.RequiredColumns))
	for _, c := range churn.RequiredColumns {
		typed[c] = true
	}

	records := make([]churn.CustomerRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		monthly, ok := l.coercer.ParseNumeric(row[churn.ColumnMonthlyCharges])
		if !ok {
			return nil, 0, 0, core.NewColumnTypeError(churn.ColumnMonthlyCharges, i+1, row[churn.ColumnMonthlyCharges])
		}
		tenure, ok := l.coercer.ParseNumeric(row[churn.ColumnTenure])
		if !ok {
			return nil, 0, 0, core.NewColumnTypeError(churn.ColumnTenure, i+1, row[churn.ColumnTenure])
		}
		if tenure != math.Trunc(tenure) {
			return nil, 0, 0, core.NewNonIntegerError(churn.ColumnTenure, i+1, row[churn.ColumnTenure])
		}

		extra := make(map[string]string, len(table.Headers)-len(typed))
		for _, h := range table.Headers {
			if !typed[h] {
				extra[h] = row[h]
			}
		}

		rec := churn.NewCustomerRecord(
			row[churn.ColumnContract],
			row[churn.ColumnInternetService],
			filled[i],
			monthly,
			int(tenure),
			row[churn.ColumnChurn],
			extra,
		)
		rec.TotalChargesImputed = totals.Missing[i]
		records = append(records, rec)
	}

	l.logger.Debug("Built %d records from %s", len(records), table.Source)

	return churn.NewDataset(table.Headers, records), totals.MissingCount, median, nil
}

// imputeMedian fills missing cells with the median of the present ones. The median is
// taken before any replacement, so imputed values never influence it.
func imputeMedian(col coercer.NumericColumn) ([]float64, float64, error) {
	filled := make([]float64, len(col.Values))
	copy(filled, col.Values)

	present := col.Present()
	if len(present) == 0 {
		if col.MissingCount > 0 {
			return nil, 0, fmt.Errorf("%w: column %s has no numeric values to impute from", core.ErrSchemaMismatch, churn.ColumnTotalCharges)
		}
		return filled, 0, nil
	}

	median, err := stats.Median(present)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compute %s median: %w", churn.ColumnTotalCharges, err)
	}

	for i, missing := range col.Missing {
		if missing {
			filled[i] = median
		}
	}
	return filled, median, nil
}
