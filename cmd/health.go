package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/grovetools/archive/tui/components"
	"github.com/grovetools/archive/tui/theme"
)

// NewHealthCmd checks that the archive gateway is reachable.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the archive gateway status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			health, err := s.client.Health(ctx)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, health)
			}

			status := theme.RenderStatus("success", theme.IconSuccess+" "+health.Status)
			if !health.Healthy() {
				status = theme.RenderStatus("warning", theme.IconWarning+" "+health.Status)
			}
			pairs := [][2]string{{"Gateway", s.cfg.API.BaseURL}, {"Status", status}, {"Redis", health.Redis}}
			names := make([]string, 0, len(health.Services))
			for name := range health.Services {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				pairs = append(pairs, [2]string{name, health.Services[name]})
			}
			outln(cmd, components.RenderKeyValues(pairs...))
			return nil
		},
	}
}
