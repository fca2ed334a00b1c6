package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/thinktide/seasons/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage sekki configuration.

Examples:
  sekki config list                        # List all settings
  sekki config get file.path               # Get a specific setting
  sekki config set output.format yaml      # Set a value

Available settings:
  file.path               - Document used when no file is given (content.json)
  history.enabled         - Record sort runs (true/false)
  output.format           - Default output format (table/json/csv/yaml)`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration settings",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigList(cmd *cobra.Command, args []string) error {
	settings, err := config.List()
	if err != nil {
		return fmt.Errorf("failed to list config: %w", err)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Key", "Value"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, key := range config.ValidKeys() {
		table.Append([]string{key, settings[key]})
	}

	table.Render()
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if !config.IsValidKey(key) {
		return fmt.Errorf("unknown config key: %s\nValid keys: %s",
			key, strings.Join(config.ValidKeys(), ", "))
	}

	value, err := config.Get(key)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	if !config.IsValidKey(key) {
		return fmt.Errorf("unknown config key: %s\nValid keys: %s",
			key, strings.Join(config.ValidKeys(), ", "))
	}

	// Validate values for known keys
	switch key {
	case config.KeyOutputFormat:
		if value != "table" && value != "json" && value != "csv" && value != "yaml" {
			return fmt.Errorf("value must be 'table', 'json', 'csv', or 'yaml'")
		}
	case config.KeyHistoryEnabled:
		if value != "true" && value != "false" {
			return fmt.Errorf("value must be 'true' or 'false'")
		}
	case config.KeyFilePath:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("value must not be empty")
		}
	}

	if err := config.Set(key, value); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}
