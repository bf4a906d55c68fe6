package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/archive/cli"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/tui/components"
	"github.com/grovetools/archive/tui/components/table"
	"github.com/grovetools/archive/tui/theme"
)

type categoryLookup func(id string) (config.CategoryConfig, bool)

// NewCategoriesCmd lists the configured fields, or the suggestions the
// composer offers for a partial mention.
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories [prefix]",
		Aliases: []string{"fields"},
		Short:   "List archive fields or preview @mention suggestions",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if jsonOutput(cmd) {
					return printJSON(cmd, cfg.Categories)
				}
				rows := make([][]string, 0, len(cfg.Categories))
				for _, cat := range cfg.Categories {
					rows = append(rows, []string{components.RenderBadge(cat.ID, cat.Color), cat.DisplayName()})
				}
				outln(cmd, table.SimpleTable([]string{"MENTION", "LABEL"}, rows))
				return nil
			}

			c, err := cfg.Composer()
			if err != nil {
				return err
			}
			state := c.OnTextChanged(c.Empty(), "@"+strings.TrimPrefix(args[0], "@"))
			view := c.View(state)

			ids := make([]string, 0, len(view.Suggestions))
			for _, cat := range view.Suggestions {
				ids = append(ids, string(cat))
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, ids)
			}
			if !view.SuggestionsVisible {
				outln(cmd, theme.DefaultTheme.Muted.Render("no matching field"))
				return nil
			}
			for i, id := range ids {
				cat, _ := cfg.Category(id)
				marker := "  "
				if i == view.Highlight {
					marker = theme.DefaultTheme.SuggestionSelected.Render(theme.IconArrow + " ")
				}
				outln(cmd, marker+components.RenderBadge(id, cat.Color))
			}
			return nil
		},
	}
	return cmd
}
