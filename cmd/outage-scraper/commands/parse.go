package commands

import (
	"fmt"
	"os"

	"outage-scraper/internal/chrono"
	"outage-scraper/internal/scrapers/luma"
	"outage-scraper/services/outage"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file.html>",
	Short: "Parses a saved copy of the outage page and prints the row it would store.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		snapshot, err := luma.ParseSnapshot(cmd.Context(), string(page))
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", snapshot.Label)

		err = outage.Validate(snapshot.Regions)
		if err != nil {
			return err
		}

		row, err := outage.Transform(snapshot, chrono.NewStandardTime().Now())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Column", "Value"})
		columns, values := row.Columns()
		for i, c := range columns {
			t.AppendRow(table.Row{c, values[i]})
		}
		t.Render()

		return nil
	},
}
