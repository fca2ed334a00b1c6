package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thinktide/seasons/internal/config"
	"github.com/thinktide/seasons/internal/db"
	"github.com/thinktide/seasons/internal/logx"
	"github.com/thinktide/seasons/internal/sekki"
	"github.com/thinktide/seasons/internal/service"
)

var Version = "dev"

var (
	verbose bool
	log     = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "sekki [file]",
	Short: "Keep a small seasons calendar sorted",
	Long: `Sekki maintains the JSON file behind the Small Seasons calendar.

Run without a subcommand it sorts the file's "sekki" list by startDate
and rewrites it with 4-space indentation, the same as "sekki sort".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logx.New(cmd.ErrOrStderr(), verbose)

		// Skip DB init for version command
		if cmd.Name() == "version" {
			return nil
		}

		// History and stored config are optional; sorting works without them.
		if err := db.Init(); err != nil {
			log.Warn().Err(err).Msg("database unavailable, using default config")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		db.Close()
	},
	RunE: runSort,
}

// Execute runs the root command and exits with a status describing the
// failed stage.
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sekki: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// run executes the command tree. Cobra skips PersistentPostRun when a command
// fails, so the database is closed here as well.
func run() error {
	defer db.Close()
	return rootCmd.Execute()
}

func exitCode(err error) int {
	var se *sekki.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case sekki.KindNotFound:
			return 2
		case sekki.KindParse:
			return 3
		case sekki.KindSchema:
			return 4
		case sekki.KindWrite:
			return 5
		}
	}
	if errors.Is(err, service.ErrUnsorted) {
		return 6
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each step to stderr")
	addSortFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sekki %s\n", Version)
	},
}

// resolvePath returns the file named on the command line, or the configured
// default.
func resolvePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	path, err := config.Get(config.KeyFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to get config: %w", err)
	}
	return path, nil
}
