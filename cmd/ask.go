package cmd

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	mention "github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/pkg/models"
	"github.com/grovetools/archive/tui/components"
	"github.com/grovetools/archive/tui/theme"
)

// askResult is the --json output of ask.
type askResult struct {
	Query       string                `json:"query"`
	Field       string                `json:"field,omitempty"`
	FromMention bool                  `json:"from_mention"`
	Response    *models.QueryResponse `json:"response"`
}

// NewAskCmd sends one question to the agent without the TUI.
func NewAskCmd() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the archive agent a single question",
		Long: `Ask the archive agent a question and print the answer.

An @field mention anywhere in the question scopes it to that field and is
removed from the text sent to the agent. Without a mention, --field is used.

Examples:
  archive ask "@learning what have I learned recently?"
  archive ask --field work summarize my notes from this week`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			c, err := s.cfg.Composer()
			if err != nil {
				return err
			}
			state := c.Empty()
			if field != "" {
				resolved, err := resolveField(s.cfg, field)
				if err != nil {
					return err
				}
				state = c.SelectField(state, mention.Category(resolved))
			}
			state = c.OnTextChanged(state, strings.Join(args, " "))

			sub := c.Extract(state)
			if sub.Empty() {
				return errors.EmptyQuery()
			}

			timeout := s.cfg.QueryTimeout()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := s.client.Query(ctx, models.QueryRequest{
				Query: sub.Query,
				Field: string(sub.Category),
			})
			if err != nil {
				if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
					return errors.QueryTimeout(timeout, err)
				}
				return err
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, askResult{
					Query:       sub.Query,
					Field:       string(sub.Category),
					FromMention: sub.FromMention,
					Response:    resp,
				})
			}
			return printAnswer(cmd, s.cfg.Category, sub, resp)
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Field to search when the question has no @mention")
	return cmd
}

func printAnswer(cmd *cobra.Command, lookup categoryLookup, sub mention.Submission, resp *models.QueryResponse) error {
	t := theme.DefaultTheme

	scope := t.Muted.Render("all fields")
	if sub.Category != "" {
		cat, _ := lookup(string(sub.Category))
		scope = components.RenderBadge(string(sub.Category), cat.Color)
	}
	outln(cmd, t.Muted.Render(theme.IconAgent+" Searching ")+scope)

	rendered, err := glamour.Render(resp.Response, "auto")
	if err != nil {
		rendered = resp.Response + "\n"
	}
	outln(cmd, strings.TrimRight(rendered, "\n"))

	if len(resp.Sources) > 0 {
		var lines []string
		for _, src := range resp.Sources {
			lines = append(lines, src.String())
		}
		outln(cmd, t.Muted.Render("Sources:"))
		outln(cmd, components.RenderList(lines, false))
	}
	return nil
}
