package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/pkg/models"
	"github.com/grovetools/archive/pkg/paths"
	"github.com/grovetools/archive/tui"
)

// itemInput collects the fields shared by every add command.
type itemInput struct {
	field    string
	title    string
	body     string
	tags     []string
	address  string
	mapsURL  string
	lat, lon float64
}

func (in *itemInput) bindFlags(fs *pflag.FlagSet, bodyFlag, bodyUsage string) {
	fs.StringVarP(&in.field, "field", "f", "", "Field to archive into")
	fs.StringVarP(&in.title, "title", "t", "", "Item title")
	fs.StringVar(&in.body, bodyFlag, "", bodyUsage)
	fs.StringSliceVar(&in.tags, "tags", nil, "Tags (comma separated)")
	fs.StringVar(&in.address, "address", "", "Location address")
	fs.StringVar(&in.mapsURL, "maps-url", "", "Google Maps link for the location")
	fs.Float64Var(&in.lat, "lat", 0, "Location latitude")
	fs.Float64Var(&in.lon, "lon", 0, "Location longitude")
}

// location builds the optional location from flags. Coordinates count only
// when both --lat and --lon were given.
func (in *itemInput) location(fs *pflag.FlagSet) *models.Location {
	loc := &models.Location{Address: in.address, GoogleMapsURL: in.mapsURL}
	if fs.Changed("lat") && fs.Changed("lon") {
		lat, lon := in.lat, in.lon
		loc.Latitude, loc.Longitude = &lat, &lon
	}
	if loc.Address == "" && loc.GoogleMapsURL == "" && !loc.HasCoordinates() {
		return nil
	}
	return loc
}

func (in *itemInput) complete() bool {
	return in.field != "" && in.title != "" && in.body != ""
}

// prompt fills missing values with an interactive form. Without a terminal
// it reports which flags are required instead.
func (in *itemInput) prompt(cfg *config.Config, bodyFlag string, body huh.Field) error {
	if in.complete() {
		return nil
	}
	if !tui.IsInteractive() {
		return errors.InvalidInput(fmt.Sprintf("--field, --title and --%s are required when not running in a terminal", bodyFlag), nil)
	}

	fieldOptions := make([]huh.Option[string], 0, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		fieldOptions = append(fieldOptions, huh.NewOption(cat.DisplayName(), cat.ID))
	}
	if in.field == "" && len(cfg.Categories) > 0 {
		in.field = cfg.Categories[0].ID
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Field").
				Options(fieldOptions...).
				Value(&in.field),
			huh.NewInput().
				Title("Title").
				Value(&in.title).
				Validate(required("title")),
			body,
			huh.NewMultiSelect[string]().
				Title("Tags").
				Options(huh.NewOptions(cfg.Tags...)...).
				Filterable(true).
				Value(&in.tags),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return errors.New(errors.ErrCodeCancelled, "cancelled")
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "form failed")
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func newItemsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Archive a note, link or file",
		Long: `Archive a new item. Missing flags are asked for interactively.

Examples:
  archive items add text --field personal --title "Ramen spot" --content "Try the tonkotsu"
  archive items add link --field inspiration --title "Reel" --url https://instagram.com/p/abc
  archive items add file --field work --title "Q3 plan" --path ./plan.pdf --tags planning`,
	}
	cmd.AddCommand(newAddTextCmd(), newAddLinkCmd(), newAddFileCmd())
	return cmd
}

func newAddTextCmd() *cobra.Command {
	in := &itemInput{}
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Archive a text note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			body := huh.NewText().Title("Content").Value(&in.body).Validate(required("content"))
			if err := in.prompt(s.cfg, "content", body); err != nil {
				return err
			}
			field, err := resolveField(s.cfg, in.field)
			if err != nil {
				return err
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			item, err := s.client.CreateText(ctx, models.TextItemRequest{
				Field:    field,
				Title:    in.title,
				Content:  in.body,
				Tags:     in.tags,
				Location: in.location(cmd.Flags()),
			})
			if err != nil {
				return err
			}
			return printItem(cmd, s, "Archived", item)
		},
	}
	in.bindFlags(cmd.Flags(), "content", "Note text")
	return cmd
}

func newAddLinkCmd() *cobra.Command {
	in := &itemInput{}
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Archive an Instagram link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			body := huh.NewInput().Title("URL").Value(&in.body).Validate(required("url"))
			if err := in.prompt(s.cfg, "url", body); err != nil {
				return err
			}
			field, err := resolveField(s.cfg, in.field)
			if err != nil {
				return err
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			item, err := s.client.CreateLink(ctx, models.LinkItemRequest{
				Field:    field,
				Title:    in.title,
				URL:      in.body,
				Tags:     in.tags,
				Location: in.location(cmd.Flags()),
			})
			if err != nil {
				return err
			}
			return printItem(cmd, s, "Archived", item)
		},
	}
	in.bindFlags(cmd.Flags(), "url", "Link to archive")
	return cmd
}

func newAddFileCmd() *cobra.Command {
	in := &itemInput{}
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Upload and archive a local file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if in.title == "" && in.body != "" {
				in.title = filepath.Base(in.body)
			}
			body := huh.NewInput().Title("Path").Value(&in.body).Validate(func(p string) error {
				if info, err := os.Stat(p); err != nil || info.IsDir() {
					return fmt.Errorf("not a readable file")
				}
				return nil
			})
			if err := in.prompt(s.cfg, "path", body); err != nil {
				return err
			}
			field, err := resolveField(s.cfg, in.field)
			if err != nil {
				return err
			}
			path, err := paths.Expand(in.body)
			if err != nil {
				return errors.InvalidInput("invalid --path", err)
			}

			ctx, cancel := s.requestContext(cmd)
			defer cancel()
			item, err := s.client.UploadFile(ctx, models.FileItemRequest{
				Field:    field,
				Title:    in.title,
				Path:     path,
				Tags:     in.tags,
				Location: in.location(cmd.Flags()),
			})
			if err != nil {
				return err
			}
			return printItem(cmd, s, "Uploaded", item)
		},
	}
	in.bindFlags(cmd.Flags(), "path", "File to upload")
	return cmd
}

// confirmDelete asks before deleting. Without a terminal it refuses.
func confirmDelete(id string) (bool, error) {
	if !tui.IsInteractive() {
		return false, errors.InvalidInput("refusing to delete without --yes when not running in a terminal", nil)
	}
	confirmed := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete item %s?", id)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil && err != huh.ErrUserAborted {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "confirmation failed")
	}
	return confirmed, nil
}
