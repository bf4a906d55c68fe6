package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/archive/cli"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/logging"
	"github.com/grovetools/archive/tui/keymap"
)

// NewConfigCmd groups the configuration inspection commands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate archive.yml",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSchemaCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var layers bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Long: `Print the configuration the other commands use.

With --layers, shows how it is built by merging:
1. Defaults
2. Global config ($XDG_CONFIG_HOME/grove-archive/archive.yml)
3. Project config (archive.yml found walking up from the current directory)
4. .env and ARCHIVE_API_* environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !layers {
				cfg, err := cli.LoadConfig(cmd)
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return printJSON(cmd, cfg)
				}
				return printLayer(cmd, "", "", cfg)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to get current directory")
			}
			layered, err := config.LoadLayered(cwd, cli.GetLogger(cmd).Logger)
			if err != nil {
				return err
			}

			if err := printLayer(cmd, "GLOBAL CONFIG", layered.FilePaths[config.SourceGlobal], layered.Global); err != nil {
				return err
			}
			if err := printLayer(cmd, "PROJECT CONFIG", layered.FilePaths[config.SourceProject], layered.Project); err != nil {
				return err
			}
			if path, ok := layered.FilePaths[config.SourceEnv]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "--- # ENVIRONMENT\n# Source: %s\n\n", path)
			}
			return printLayer(cmd, "FINAL MERGED CONFIG", "", layered.Final)
		},
	}

	cmd.Flags().BoolVar(&layers, "layers", false, "Show each configuration layer before the merged result")
	return cmd
}

func printLayer(cmd *cobra.Command, title, path string, cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	w := cmd.OutOrStdout()
	if title != "" {
		fmt.Fprintf(w, "--- # %s\n", title)
	}
	if path != "" {
		fmt.Fprintf(w, "# Source: %s\n", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal configuration")
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for archive.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to generate schema")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file against the schema and the semantic
rules (unique lower-case field ids, positive timeouts, known keybinding
actions, no key bound to two agent actions). Without an argument, validates
the discovered configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			source := "discovered configuration"
			if len(args) == 1 {
				source = args[0]
				cfg, err = config.Load(args[0])
			} else {
				cfg, err = cli.LoadConfig(cmd)
			}
			if err != nil {
				return err
			}
			if _, err := keymap.Load(cfg); err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, map[string]interface{}{
					"valid":      true,
					"source":     source,
					"categories": cfg.CategoryIDs(),
				})
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("%s is valid (%d fields)", source, len(cfg.Categories)))
			return nil
		},
	}
}
