package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thinktide/seasons/internal/config"
	"github.com/thinktide/seasons/internal/service"
)

var (
	sortCheck  bool
	sortDryRun bool
)

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort the sekki list by start date",
	Long: `Sort the "sekki" list of a JSON document by each entry's startDate and
rewrite the file with 4-space indentation. Other keys and fields are kept
in their original order.

Examples:
  sekki sort                      # Sort the configured file (content.json)
  sekki sort seasons.json         # Sort a specific file
  sekki sort --check              # Fail if the file is not sorted
  sekki sort --dry-run            # Print the sorted document instead`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSort,
}

func init() {
	addSortFlags(sortCmd)
}

func addSortFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&sortCheck, "check", false, "Report whether the file is sorted without writing it")
	cmd.Flags().BoolVarP(&sortDryRun, "dry-run", "n", false, "Print the sorted document without writing it")
}

func runSort(cmd *cobra.Command, args []string) error {
	path, err := resolvePath(args)
	if err != nil {
		return err
	}

	record, err := config.GetBool(config.KeyHistoryEnabled)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	res, err := service.Sort(service.SortOptions{
		Path:   path,
		Check:  sortCheck,
		DryRun: sortDryRun,
		Record: record,
		Log:    log,
	})
	if err != nil {
		return err
	}

	if sortDryRun && !sortCheck {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.Output)
	}
	return nil
}
