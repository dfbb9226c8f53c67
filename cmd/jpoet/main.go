package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/jpoet/am"
	"github.com/teranos/jpoet/cmd/jpoet/commands"
	"github.com/teranos/jpoet/logger"
)

var rootCmd = &cobra.Command{
	Use:   "jpoet",
	Short: "jpoet - Java source generation from declarative descriptors",
	Long: `jpoet - Java source generation from declarative descriptors.

Describe a Java type in YAML or TOML and jpoet renders a complete,
import-managed .java file for it.

Available commands:
  generate - Render descriptors to stdout, a directory or a filer URL
  check    - Verify generated sources are up to date
  watch    - Regenerate when descriptors change
  am       - Manage jpoet configuration ("I am")
  version  - Show build information

Examples:
  jpoet generate hello.yaml
  jpoet generate -o src/main/java api/*.yaml
  jpoet check -o src/main/java api/*.yaml
  jpoet am show --sources`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("log-json")

		// Config problems surface in the command itself; logging still starts
		if cfg, err := am.Load(); err == nil {
			if verbosity == 0 {
				verbosity = cfg.Log.Verbosity
			}
			jsonLog = jsonLog || cfg.Log.JSON
		}

		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")

	// Add commands
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
