package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/thinktide/seasons/internal/config"
	"github.com/thinktide/seasons/internal/model"
	"github.com/thinktide/seasons/internal/service"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history [file]",
	Short: "Show past sort runs",
	Long: `Show recorded sort runs, newest first.

Examples:
  sekki history                   # Last 20 runs
  sekki history content.json      # Runs against one file
  sekki history --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyFormat, "format", "", "Output format: table, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts := service.HistoryOptions{Limit: historyLimit}
	if len(args) > 0 {
		opts.Path = args[0]
	}

	format := historyFormat
	if format == "" {
		f, err := config.Get(config.KeyOutputFormat)
		if err != nil {
			return err
		}
		format = f
	}

	summary, err := service.GenerateHistory(opts)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	if len(summary.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Time", "Path", "Entries", "Moved", "Status"})
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

	for _, r := range summary.Runs {
		table.Append([]string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Path,
			strconv.Itoa(r.Entries),
			strconv.Itoa(r.Moved),
			string(r.Status),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\n%d sorted, %d unchanged, %d failed\n",
		summary.ByStatus[model.StatusSorted],
		summary.ByStatus[model.StatusUnchanged],
		summary.ByStatus[model.StatusFailed])
	return nil
}
