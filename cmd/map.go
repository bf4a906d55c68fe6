package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/archive/pkg/archiveapi"
	"github.com/grovetools/archive/pkg/models"
	"github.com/grovetools/archive/tui/components"
	"github.com/grovetools/archive/tui/components/table"
	"github.com/grovetools/archive/tui/theme"
)

type mapResult struct {
	Markers         []models.MapMarker `json:"markers"`
	Total           int                `json:"total"`
	CenterLatitude  float64            `json:"center_latitude"`
	CenterLongitude float64            `json:"center_longitude"`
}

// NewMapCmd lists the items that carry coordinates.
func NewMapCmd() *cobra.Command {
	var (
		field string
		tags  []string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "List items with a location",
		Args:  cobra.NoArgs,
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
			view, err := s.client.MapView(ctx, archiveapi.MapOptions{Field: field, Tags: tags})
			if err != nil {
				return err
			}
			lat, lon := view.Center(s.cfg.Map.CenterLatitude, s.cfg.Map.CenterLongitude)

			if jsonOutput(cmd) {
				return printJSON(cmd, mapResult{
					Markers:         view.Markers,
					Total:           view.Total,
					CenterLatitude:  lat,
					CenterLongitude: lon,
				})
			}

			t := theme.DefaultTheme
			if len(view.Markers) == 0 {
				outln(cmd, t.Muted.Render("No items with a location."))
			} else {
				rows := make([][]string, 0, len(view.Markers))
				for _, marker := range view.Markers {
					cat, _ := s.cfg.Category(marker.Field)
					rows = append(rows, []string{
						truncate(marker.Title, 40),
						components.RenderBadge(marker.Field, cat.Color),
						fmt.Sprintf("%.4f", marker.Latitude),
						fmt.Sprintf("%.4f", marker.Longitude),
					})
				}
				outln(cmd, table.SimpleTable([]string{"TITLE", "FIELD", "LAT", "LON"}, rows))
			}
			outln(cmd, components.RenderKeyValue(theme.IconLocation+" Centre", fmt.Sprintf("%.4f, %.4f", lat, lon)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Only show items in this field")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only show items with any of these tags")
	return cmd
}
