package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"outage-scraper/internal/telemetry"
	"outage-scraper/services/outage"
	"outage-scraper/services/outage/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyCount int

func init() {
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 10, "How many rows to print.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [-n <count>]",
	Short: "Prints the most recently stored rows and the last run.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		database, err := cfg.Database.OpenDB(db.Schema)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		store := outage.NewSQLStore(database, telemetry.SlogAPI{})
		ctx := cmd.Context()

		rows, err := store.Recent(ctx, historyCount)
		if err != nil {
			return err
		}
		renderHistory(os.Stdout, rows)

		run, ok, err := store.LastRun(ctx)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf(
				"\nlast run %s at %s: %s %s\n",
				run.RunID, run.FinishedAt, run.Status, run.Error,
			)
		}
		return nil
	},
}

const restoredSuffix = "_restored_customers"

// regionPrefixes returns the column prefix of every region in the table.
func regionPrefixes(columns []string) []string {
	var prefixes []string
	for _, c := range columns {
		if strings.HasSuffix(c, restoredSuffix) {
			prefixes = append(prefixes, strings.TrimSuffix(c, restoredSuffix))
		}
	}
	sort.Strings(prefixes)
	return prefixes
}

func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// renderHistory prints one line per row, columns missing from a row print
// as "-".
func renderHistory(w io.Writer, rows db.OutageRows) {
	index := make(map[string]int, len(rows.Columns))
	for i, c := range rows.Columns {
		index[c] = i
	}
	prefixes := regionPrefixes(rows.Columns)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Captured", "Published"}
	for _, p := range prefixes {
		header = append(header, p)
	}
	t.AppendHeader(header)

	for _, r := range rows.Rows {
		value := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(r) {
				return "-"
			}
			return cell(r[i])
		}

		out := table.Row{
			value(outage.ColumnTimestamp),
			value(outage.ColumnPublishedTimestamp),
		}
		for _, p := range prefixes {
			out = append(out, fmt.Sprintf(
				"%s/%s (%s%%)",
				value(p+restoredSuffix),
				value(p+"_total_customers"),
				value(p+"_percent_restored"),
			))
		}
		t.AppendRow(out)
	}

	t.Render()
}
