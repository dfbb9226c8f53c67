package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/jpoet/am"
	"github.com/teranos/jpoet/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = newAmCmd()

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Manage jpoet configuration",
		Long: `am: manage jpoet configuration

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (JPOET_* prefix)
3. Project config (nearest jpoet.toml, searching up directories)
4. User config (~/.jpoet/jpoet.toml)
5. System config (/etc/jpoet/jpoet.toml)
6. Default values

Examples:
  jpoet am show                    # Show current configuration
  jpoet am show --format json      # Show configuration in JSON format
  jpoet am show --sources          # Show where each setting comes from
  jpoet am init                    # Write jpoet.toml with defaults
  jpoet am validate                # Validate current configuration`,
	}
	cmd.AddCommand(newAmShowCmd(), newAmInitCmd(), newAmValidateCmd())
	return cmd
}

func newAmShowCmd() *cobra.Command {
	var (
		format  string
		sources bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective jpoet configuration merged from all sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sources {
				return showSources(cmd)
			}

			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			return showConfig(cmd, cfg, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	cmd.Flags().BoolVar(&sources, "sources", false, "List every setting with the source it came from")
	return cmd
}

func showConfig(cmd *cobra.Command, cfg *am.Config, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# jpoet configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# jpoet configuration\n%s", string(data))

	default:
		return errors.NewInvalidArgumentf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func showSources(cmd *cobra.Command) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, setting := range intro.Settings {
		valueStr := fmt.Sprintf("%v", setting.Value)
		// Truncate long values
		if len(valueStr) > 50 {
			valueStr = valueStr[:47] + "..."
		}
		fmt.Fprintf(out, "%-30s = %-20s [%s] %s\n", setting.Key, valueStr, setting.Source, setting.SourcePath)
	}
	return nil
}

func newAmInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a jpoet.toml with default settings",
		Long:  "Create jpoet.toml in dir (default: the working directory). An existing file is left untouched.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			} else if wd, err := os.Getwd(); err == nil {
				dir = wd
			}

			path, err := am.InitProject(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			return nil
		},
	}
}

func newAmValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Long:  "Validate that the current jpoet configuration is valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}

			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}
