package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/navtool/chartload/cmd/chartload/commands"
	"github.com/navtool/chartload/logger"
)

var rootCmd = &cobra.Command{
	Use:   "chartload",
	Short: "chartload - Resilient loader for compressed chart packages",
	Long: `chartload downloads, extracts, verifies, and decodes electronic
navigational chart packages, retrying transient failures with exponential
backoff.

Available commands:
  load     - Load one or more charts through the full pipeline
  catalog  - Inspect the chart catalog
  version  - Show version information

Examples:
  chartload load US5WA50M                # Load a single chart
  chartload load US5WA50M US5CA13M      # Load charts concurrently
  chartload load --debug -v US5WA50M    # Verbose diagnostics on failure
  chartload catalog list                 # List known charts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit internal logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a chartload.toml config file")

	rootCmd.AddCommand(commands.LoadCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
