package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/thinktide/seasons/internal/config"
	"github.com/thinktide/seasons/internal/sekki"
	"go.yaml.in/yaml/v3"
)

var (
	listFormat string
	listDate   string
)

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "Show the sekki entries",
	Long: `Show the sekki entries of a document in file order.

Examples:
  sekki list                      # Table of the configured file
  sekki list --format yaml        # As YAML
  sekki list --date 2024-06-01    # Mark the sekki in effect on that day
  sekki list seasons.json --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "", "Output format: table, json, csv, yaml")
	listCmd.Flags().StringVar(&listDate, "date", "", "Day whose sekki is marked NOW (YYYY-MM-DD), default today")
}

func runList(cmd *cobra.Command, args []string) error {
	path, err := resolvePath(args)
	if err != nil {
		return err
	}

	format := listFormat
	if format == "" {
		format, err = config.Get(config.KeyOutputFormat)
		if err != nil {
			return err
		}
	}

	day := time.Now()
	if listDate != "" {
		day, err = time.ParseInLocation("2006-01-02", listDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", listDate)
		}
	}

	list, err := sekki.Load(path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return listJSON(w, list)
	case "csv":
		return listCSV(w, list)
	case "yaml":
		return listYAML(w, list)
	case "table":
		listTable(w, list, sekki.CurrentIndex(list, day))
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

// listTable prints the entries, marking the one at current as in effect now.
func listTable(w io.Writer, list []sekki.Sekki, current int) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No entries")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Start", "Kanji", "ID", "Title", "Notes"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAutoWrapText(false)

	for i, s := range list {
		kanji := s.Kanji
		if i == current {
			kanji += " — NOW"
		}
		notes := s.Notes
		if len([]rune(notes)) > 40 {
			notes = string([]rune(notes)[:37]) + "..."
		}
		table.Append([]string{s.StartDate, kanji, s.ID, s.Title, notes})
	}
	table.Render()
}

func listJSON(w io.Writer, list []sekki.Sekki) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(list)
}

func listCSV(w io.Writer, list []sekki.Sekki) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"startDate", "kanji", "id", "title", "notes", "description"})
	for _, s := range list {
		writer.Write([]string{s.StartDate, s.Kanji, s.ID, s.Title, s.Notes, s.Description})
	}

	writer.Flush()
	return writer.Error()
}

func listYAML(w io.Writer, list []sekki.Sekki) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(list); err != nil {
		return err
	}
	return encoder.Close()
}
