package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"churnscope/adapters/excel"
	"churnscope/adapters/postgres"
	"churnscope/domain/churn"
	"churnscope/domain/ingestion"
	"churnscope/internal/config"
	"churnscope/internal/container"
	"churnscope/internal/dataset"
	"churnscope/internal/testkit"
	"churnscope/internal/views"

	"github.com/spf13/cobra"
)

// apply exports the flags as environment variables so config.Load sees them
func (f *sourceFlags) apply() {
	for key, value := range map[string]string{
		"DATA_FILE":    f.file,
		"DATA_SHEET":   f.sheet,
		"CHURN_SOURCE": f.source,
		"DATABASE_URL": f.dsn,
		"DATA_TABLE":   f.table,
	} {
		if value != "" {
			os.Setenv(key, value)
		}
	}
}

// load builds the container from flags and environment and loads the dataset
func (f *sourceFlags) load(ctx context.Context) (*churn.Dataset, *dataset.LoadReport, func(), error) {
	f.apply()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := container.New(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { _ = c.Shutdown(context.Background()) }

	ds, err := c.Store.Load(ctx)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return ds, c.Store.Report(), closeFn, nil
}

func newSummaryCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Load the dataset and print the load report and headline counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, report, closeFn, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return printSummary(cmd.OutOrStdout(), ds, report)
		},
	}
}

func printSummary(w io.Writer, ds *churn.Dataset, report *dataset.LoadReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Source:\t%s\n", report.Source)
	fmt.Fprintf(tw, "Rows:\t%d\n", ds.Len())
	fmt.Fprintf(tw, "Columns:\t%d\n", report.Columns)
	fmt.Fprintf(tw, "Churned:\t%d\n", ds.ChurnedCount())
	if ds.Len() > 0 {
		fmt.Fprintf(tw, "Churn rate:\t%.1f%%\n", 100*float64(ds.ChurnedCount())/float64(ds.Len()))
	}
	fmt.Fprintf(tw, "TotalCharges imputed:\t%d (median %.2f)\n", report.ImputedTotalCharges, report.TotalChargesMedian)
	fmt.Fprintf(tw, "Contracts:\t%s\n", strings.Join(churn.DistinctContracts(ds), ", "))
	fmt.Fprintf(tw, "Internet services:\t%s\n", strings.Join(churn.DistinctInternetServices(ds), ", "))
	fmt.Fprintf(tw, "Load time:\t%s\n", report.Duration)
	return tw.Flush()
}

func newFilterCmd(flags *sourceFlags) *cobra.Command {
	var (
		contracts []string
		services  []string
		out       string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Apply a contract and internet-service filter",
		Long: `Apply a filter and print the matching row count and a preview.

A flag that is not given selects every value; a flag given with an empty
value selects nothing.

Example: churnctl filter --contract "Month-to-month" --internet "Fiber optic" --out subset.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, closeFn, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sel := churn.DefaultSelection(ds)
			if cmd.Flags().Changed("contract") {
				sel.Contracts = contracts
			}
			if cmd.Flags().Changed("internet") {
				sel.InternetServices = services
			}
			sel = churn.NewSelection(nonBlank(sel.Contracts), nonBlank(sel.InternetServices))
			filtered := churn.Apply(ds, sel)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d of %d customers match (%d churned)\n", filtered.Len(), ds.Len(), filtered.ChurnedCount())
			if err := printRecords(w, filtered, limit); err != nil {
				return err
			}

			if out != "" {
				if err := excel.WriteTable(out, excel.DefaultSheetName, rawTable(filtered)); err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %d rows to %s\n", filtered.Len(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&contracts, "contract", nil, "Contract values to keep (repeatable)")
	cmd.Flags().StringSliceVar(&services, "internet", nil, "InternetService values to keep (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "Write the matching rows to this .xlsx file")
	cmd.Flags().IntVar(&limit, "limit", 10, "Preview rows to print")

	return cmd
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func printRecords(w io.Writer, ds *churn.Dataset, limit int) error {
	if ds.IsEmpty() || limit <= 0 {
		return nil
	}
	headers := ds.Headers()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, rec := range ds.Head(limit) {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i], _ = rec.Value(h)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// rawTable converts a dataset back into text cells, imputed values included
func rawTable(ds *churn.Dataset) *ingestion.RawTable {
	headers := ds.Headers()
	table := &ingestion.RawTable{Headers: headers, Rows: make([]ingestion.RawRow, 0, ds.Len())}
	for _, rec := range ds.Records() {
		row := make(ingestion.RawRow, len(headers))
		for _, h := range headers {
			row[h], _ = rec.Value(h)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func newViewsCmd(flags *sourceFlags) *cobra.Command {
	var (
		asJSON bool
		view   string
	)

	cmd := &cobra.Command{
		Use:   "views",
		Short: "Compute the dashboard aggregates for the whole dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, closeFn, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var name views.Name
			if view != "" {
				n, ok := views.ParseName(view)
				if !ok {
					return fmt.Errorf("unknown view %q", view)
				}
				name = n
			}

			d, err := views.BuildAll(cmd.Context(), ds)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				var v interface{} = d
				if name != "" {
					v, _ = d.View(name)
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}
			return printViews(w, d)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the aggregates as JSON")
	cmd.Flags().StringVar(&view, "view", "", "Only this view (with --json)")

	return cmd
}

func printViews(w io.Writer, d *views.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Overview:\t%d customers, %d churned\n", d.Overview.TotalCustomers, d.Overview.ChurnedCustomers)
	for _, s := range d.Pie.Slices {
		fmt.Fprintf(tw, "Churn %s:\t%d\n", s.Label, s.Count)
	}
	fmt.Fprintf(tw, "Tenure values:\t%d\n", len(d.Trend.Points))
	for _, c := range d.Density.Curves {
		fmt.Fprintf(tw, "Density %s:\tn=%d bandwidth=%.3f\n", c.Label, c.N, c.Bandwidth)
	}
	for _, p := range d.Hierarchy.Parents {
		fmt.Fprintf(tw, "Contract %s:\t%d\n", p.Label, p.Count)
	}
	for i, f := range d.Correlations.WithChurn {
		if i == 5 {
			break
		}
		fmt.Fprintf(tw, "Corr %s:\t%.3f\n", f.Column, float64(f.Value))
	}
	return tw.Flush()
}

func newSeedCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Copy the file source into a PostgreSQL table for the postgres source",
		Long: `Read the configured workbook or CSV, check that it loads, and replace the
target table with its rows.

Example: churnctl seed --file Dataset.xlsx --dsn postgres://localhost/churn --table churn_customers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dsn := flags.dsn
			if dsn == "" {
				dsn = os.Getenv("DATABASE_URL")
			}
			if dsn == "" {
				return fmt.Errorf("--dsn or DATABASE_URL is required")
			}
			table := flags.table
			if table == "" {
				table = os.Getenv("DATA_TABLE")
			}
			if table == "" {
				table = postgres.DefaultTable
			}

			excelConfig := excel.DefaultExcelConfig()
			if f := firstNonEmpty(flags.file, os.Getenv("DATA_FILE")); f != "" {
				excelConfig.FilePath = f
			}
			if s := firstNonEmpty(flags.sheet, os.Getenv("DATA_SHEET")); s != "" {
				excelConfig.SheetName = s
			}
			reader := excel.NewDataReader(excelConfig)

			raw, err := reader.ReadTable(ctx)
			if err != nil {
				return err
			}
			ds, imputed, _, err := dataset.NewLoader(reader).Build(raw)
			if err != nil {
				return err
			}

			db, err := postgres.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewCustomerSource(db, table).ReplaceTable(ctx, raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows into %s (%d TotalCharges cells will be imputed on load)\n", ds.Len(), table, imputed)
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	config := testkit.DefaultChurnConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic churn workbook for demos and local runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.CustomerCount <= 0 {
				return fmt.Errorf("--customers must be positive")
			}
			table := testkit.NewChurnDataGenerator(config).Generate()
			if err := excel.WriteTable(out, excel.DefaultSheetName, table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d customers to %s\n", len(table.Rows), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "Dataset.xlsx", "Workbook to write")
	cmd.Flags().IntVar(&config.CustomerCount, "customers", config.CustomerCount, "Number of customers")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed")
	cmd.Flags().Float64Var(&config.BaseChurnRate, "churn-rate", config.BaseChurnRate, "Base churn probability before contract and service effects")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
