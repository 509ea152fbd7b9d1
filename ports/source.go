package ports

import (
	"context"

	"churnscope/domain/ingestion"
)

// DataSource reads the raw churn table from wherever it lives.
// Implementations must return core.ErrDataUnavailable (wrapped) when the source
// cannot be located or read.
type DataSource interface {
	ReadTable(ctx context.Context) (*ingestion.RawTable, error)
	Name() string
}

// TableWriter replaces a stored copy of a raw table
type TableWriter interface {
	ReplaceTable(ctx context.Context, table *ingestion.RawTable) error
}
