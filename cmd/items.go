package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/logging"
	"github.com/grovetools/archive/pkg/archiveapi"
	"github.com/grovetools/archive/pkg/models"
	"github.com/grovetools/archive/tui/components"
	"github.com/grovetools/archive/tui/components/table"
	"github.com/grovetools/archive/tui/theme"
)

// NewItemsCmd groups the item management commands.
func NewItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "List, add, edit and delete archived items",
	}
	cmd.AddCommand(
		newItemsListCmd(),
		newItemsAddCmd(),
		newItemsEditCmd(),
		newItemsDeleteCmd(),
	)
	return cmd
}

func newItemsListCmd() *cobra.Command {
	var (
		field  string
		search string
		limit  int
		skip   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived items",
		Long: `List archived items, newest first.

--search filters the fetched page by title and content.

Examples:
  archive items list --field inspiration
  archive items list --search ramen --limit 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			field, err := resolveField(s.cfg, field)
			if err != nil {
				return err
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			list, err := s.client.ListItems(ctx, archiveapi.ListOptions{Field: field, Skip: skip, Limit: limit})
			if err != nil {
				return err
			}
			filtered := list.Filter(search)

			if jsonOutput(cmd) {
				return printJSON(cmd, filtered)
			}
			if len(filtered.Items) == 0 {
				outln(cmd, theme.DefaultTheme.Muted.Render("No items found."))
				return nil
			}

			rows := make([][]string, 0, len(filtered.Items))
			for _, item := range filtered.Items {
				cat, _ := s.cfg.Category(item.Field)
				rows = append(rows, []string{
					item.ID,
					components.RenderBadge(item.Field, cat.Color),
					item.ContentType.Label(),
					truncate(item.Title, 40),
					strings.Join(item.Tags, ", "),
					item.CreatedAt.Format("2006-01-02"),
				})
			}
			outln(cmd, table.SimpleTable([]string{"ID", "FIELD", "TYPE", "TITLE", "TAGS", "CREATED"}, rows))
			outln(cmd, theme.DefaultTheme.Muted.Render(fmt.Sprintf("Showing %d of %d", len(filtered.Items), list.Total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Only list items in this field")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title or content")
	cmd.Flags().IntVarP(&limit, "limit", "n", archiveapi.DefaultListLimit, "Maximum items to fetch")
	cmd.Flags().IntVar(&skip, "skip", 0, "Items to skip")
	return cmd
}

func newItemsEditCmd() *cobra.Command {
	var (
		field   string
		title   string
		content string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an archived item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			field, err := resolveField(s.cfg, field)
			if err != nil {
				return err
			}

			req := models.UpdateItemRequest{Field: field, Title: title, Content: content, Tags: tags}
			if req.IsEmpty() {
				return errors.InvalidInput("nothing to update: pass --field, --title, --content or --tags", nil)
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			item, err := s.client.UpdateItem(ctx, args[0], req)
			if err != nil {
				return err
			}
			return printItem(cmd, s, "Updated", item)
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Move the item to this field")
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Replace the tags (comma separated)")
	return cmd
}

func newItemsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an archived item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirmDelete(args[0])
				if err != nil {
					return err
				}
				if !confirmed {
					outln(cmd, theme.DefaultTheme.Muted.Render("Cancelled."))
					return nil
				}
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			if err := s.client.DeleteItem(ctx, args[0]); err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success("Deleted " + args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func printItem(cmd *cobra.Command, s *session, verb string, item *models.Item) error {
	if jsonOutput(cmd) {
		return printJSON(cmd, item)
	}

	cat, _ := s.cfg.Category(item.Field)
	updated := ""
	if item.UpdatedAt != nil {
		updated = item.UpdatedAt.Format("2006-01-02 15:04")
	}
	outln(cmd, theme.RenderStatus("success", fmt.Sprintf("%s %s %s", theme.IconSuccess, verb, item.Title)))
	outln(cmd, components.RenderKeyValues(
		[2]string{"ID", item.ID},
		[2]string{"Field", components.RenderBadge(item.Field, cat.Color)},
		[2]string{"Type", item.ContentType.Label()},
		[2]string{"File", item.FileName},
		[2]string{"Tags", strings.Join(item.Tags, ", ")},
		[2]string{"Location", item.Location.String()},
		[2]string{"Updated", updated},
	))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
