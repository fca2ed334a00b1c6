package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thinktide/seasons/internal/sekki"
)

var (
	currentDate string
	currentSize string
)

var currentCmd = &cobra.Command{
	Use:   "current [file]",
	Short: "Show the sekki in effect today",
	Long: `Show the sekki in effect on a day, as the home screen widget does.

Sizes:
  small    name only
  medium   name and notes
  large    kanji, name, notes and description

Examples:
  sekki current                       # Today's sekki
  sekki current --size large          # With kanji and description
  sekki current --date 2024-02-04     # On a specific day`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCurrent,
}

func init() {
	currentCmd.Flags().StringVar(&currentDate, "date", "", "Day to look up (YYYY-MM-DD), default today")
	currentCmd.Flags().StringVar(&currentSize, "size", string(sekki.SizeSmall), "Text size: small, medium, large")
}

func runCurrent(cmd *cobra.Command, args []string) error {
	path, err := resolvePath(args)
	if err != nil {
		return err
	}

	day := time.Now()
	if currentDate != "" {
		day, err = time.ParseInLocation("2006-01-02", currentDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", currentDate)
		}
	}

	size := sekki.Size(currentSize)
	validSize := false
	for _, s := range sekki.AllSizes {
		if size == s {
			validSize = true
			break
		}
	}
	if !validSize {
		return fmt.Errorf("invalid size: %s\nValid sizes: %v", currentSize, sekki.AllSizes)
	}

	list, err := sekki.Load(path)
	if err != nil {
		return err
	}

	current, ok := sekki.Current(list, day)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No sekki defined")
		return nil
	}
	log.Debug().Str("id", current.ID).Str("start", current.StartDate).Msg("current sekki")

	fmt.Fprintln(cmd.OutOrStdout(), current.Text(size))
	return nil
}
