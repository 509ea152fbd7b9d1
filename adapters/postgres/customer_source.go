package postgres

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"churnscope/domain/core"
	"churnscope/domain/ingestion"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// rowOrderColumn keeps source row order in a table that has no natural ordering
const rowOrderColumn = "_row"

// DefaultTable is the table the seed command writes and the source reads
const DefaultTable = "churn_customers"

// Connect opens and pings a PostgreSQL connection
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// CustomerSource reads the churn table from PostgreSQL. Every column is read as text
// so that the loader applies the same coercion rules as for spreadsheet sources.
type CustomerSource struct {
	db    *sqlx.DB
	table string
}

// NewCustomerSource creates a source over the given table
func NewCustomerSource(db *sqlx.DB, table string) *CustomerSource {
	if table == "" {
		table = DefaultTable
	}
	return &CustomerSource{db: db, table: table}
}

// Name identifies the source in logs and load reports
func (s *CustomerSource) Name() string {
	return "postgres:" + s.table
}

// ReadTable selects every row ordered by the seed row number
func (s *CustomerSource) ReadTable(ctx context.Context) (*ingestion.RawTable, error) {
	start := time.Now()
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", pq.QuoteIdentifier(s.table), pq.QuoteIdentifier(rowOrderColumn))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, core.NewDataUnavailableError(s.Name(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, core.NewDataUnavailableError(s.Name(), err)
	}

	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != rowOrderColumn {
			headers = append(headers, c)
		}
	}

	var data []ingestion.RawRow
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, core.NewDataUnavailableError(s.Name(), err)
		}
		row := make(ingestion.RawRow, len(headers))
		for i, c := range columns {
			if c == rowOrderColumn {
				continue
			}
			row[c] = strings.TrimSpace(cellString(values[i]))
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataUnavailableError(s.Name(), err)
	}

	log.Printf("[CustomerSource] Read %d rows from %s in %.2fms", len(data), s.table, float64(time.Since(start).Nanoseconds())/1e6)

	return &ingestion.RawTable{Source: s.Name(), Headers: headers, Rows: data}, nil
}

// ReplaceTable drops and recreates the table, then bulk-loads every row with COPY
func (s *CustomerSource) ReplaceTable(ctx context.Context, table *ingestion.RawTable) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(s.table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", s.table, err)
	}
	if _, err := tx.ExecContext(ctx, createTableStatement(s.table, table.Headers)); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}

	columns := append([]string{rowOrderColumn}, table.Headers...)
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, columns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for i, row := range table.Rows {
		args := make([]interface{}, 0, len(columns))
		args = append(args, int64(i))
		for _, h := range table.Headers {
			args = append(args, row[h])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy row %d: %w", i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Printf("[CustomerSource] Wrote %d rows to %s", len(table.Rows), s.table)
	return nil
}

func createTableStatement(table string, headers []string) string {
	cols := make([]string, 0, len(headers)+1)
	cols = append(cols, pq.QuoteIdentifier(rowOrderColumn)+" BIGINT PRIMARY KEY")
	for _, h := range headers {
		cols = append(cols, pq.QuoteIdentifier(h)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(table), strings.Join(cols, ", "))
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
