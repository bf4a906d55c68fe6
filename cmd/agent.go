package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovetools/archive/cli"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/logging"
	"github.com/grovetools/archive/pkg/configwatch"
	"github.com/grovetools/archive/state"
	"github.com/grovetools/archive/tui"
	"github.com/grovetools/archive/tui/agent"
)

// NewAgentCmd launches the agent chat TUI.
func NewAgentCmd() *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Chat with the archive agent",
		Long: `Open an interactive chat with the archive agent.

Type @ to pick a field: tab cycles suggestions, enter accepts one, and
enter on a plain line sends the question. ctrl+f sets a default field for
questions without a mention.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsInteractive() {
				return errors.New(errors.ErrCodeInvalidInput, "the agent requires an interactive terminal; use 'archive ask' instead")
			}
			tui.InitializeTUI()

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger("agent")

			st, err := state.Load()
			if err != nil {
				logger.WithError(err).Warn("Failed to load agent state, starting fresh")
				st = &state.State{}
			}

			model, err := agent.New(s.cfg, s.client, agent.Options{State: st, Logger: logger})
			if err != nil {
				return err
			}

			logging.DisableStderr()
			p := tea.NewProgram(model, tea.WithAltScreen())

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if !noWatch {
				if files := watchedConfigFiles(cmd); len(files) > 0 {
					w, err := configwatch.New(
						func(cfg *config.Config) { p.Send(agent.ConfigReloadedMsg{Config: cfg}) },
						files,
						configwatch.WithLoader(func() (*config.Config, error) { return cli.LoadConfig(cmd) }),
						configwatch.WithLogger(logger),
					)
					if err != nil {
						logger.WithError(err).Warn("Configuration changes will not be picked up")
					} else {
						go w.Start(ctx)
					}
				}
			}

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload archive.yml when it changes")
	return cmd
}

// watchedConfigFiles lists the configuration files that feed the merged config.
func watchedConfigFiles(cmd *cobra.Command) []string {
	if path := cli.GetOptions(cmd).ConfigFile; path != "" {
		return []string{path}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	layered, err := config.LoadLayered(cwd, cli.GetLogger(cmd).Logger)
	if err != nil {
		return nil
	}

	var files []string
	for _, source := range []config.ConfigSource{config.SourceGlobal, config.SourceProject} {
		if path, ok := layered.FilePaths[source]; ok {
			files = append(files, path)
		}
	}
	return files
}
