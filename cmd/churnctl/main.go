package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFlags override the environment configuration for one invocation
type sourceFlags struct {
	file   string
	sheet  string
	source string
	dsn    string
	table  string
}

func newRootCmd() *cobra.Command {
	flags := &sourceFlags{}

	rootCmd := &cobra.Command{
		Use:           "churnctl",
		Short:         "Inspect and load the customer churn dataset from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.file, "file", "", "Source workbook or CSV (overrides DATA_FILE)")
	pf.StringVar(&flags.sheet, "sheet", "", "Worksheet name (overrides DATA_SHEET)")
	pf.StringVar(&flags.source, "source", "", "excel, csv or postgres (overrides CHURN_SOURCE)")
	pf.StringVar(&flags.dsn, "dsn", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	pf.StringVar(&flags.table, "table", "", "PostgreSQL table (overrides DATA_TABLE)")

	rootCmd.AddCommand(
		newSummaryCmd(flags),
		newFilterCmd(flags),
		newViewsCmd(flags),
		newSeedCmd(flags),
		newGenerateCmd(),
	)
	return rootCmd
}
