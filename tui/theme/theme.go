package theme

import (
	"hash/fnv"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/archive/config"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa palette (light / dark) ---
const (
	kanagawaGreenLight, kanagawaGreenDark           = "#4E7C5A", "#98BB6C"
	kanagawaYellowLight, kanagawaYellowDark         = "#A68A64", "#FF9E3B"
	kanagawaRedLight, kanagawaRedDark               = "#C34043", "#FF5D62"
	kanagawaOrangeLight, kanagawaOrangeDark         = "#CC6B4E", "#FFA066"
	kanagawaCyanLight, kanagawaCyanDark             = "#5B8BBE", "#7E9CD8"
	kanagawaBlueLight, kanagawaBlueDark             = "#4F7CAC", "#7FB4CA"
	kanagawaVioletLight, kanagawaVioletDark         = "#674D7A", "#957FB8"
	kanagawaPinkLight, kanagawaPinkDark             = "#B35C74", "#D27E99"
	kanagawaTextLight, kanagawaTextDark             = "#2B2F42", "#DCD7BA"
	kanagawaMutedLight, kanagawaMutedDark           = "#6C7086", "#727169"
	kanagawaBorderLight, kanagawaBorderDark         = "#B5BDC5", "#363646"
	kanagawaSelectedBgLight, kanagawaSelectedBgDark = "#E2E6F3", "#223249"
	kanagawaSubtleBgLight, kanagawaSubtleBgDark     = "#F7F7FB", "#1F1F28"
)

// Colors is the palette a theme is built from.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Blue               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	Pink               lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
}

// Theme holds the pre-configured styles shared by every view.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold        lipgloss.Style
	Normal      lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	SelectedRow lipgloss.Style

	TableHeader lipgloss.Style
	TableBorder lipgloss.Style
	Box         lipgloss.Style

	Input       lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style

	Highlight lipgloss.Style
	Accent    lipgloss.Style

	// Conversation
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	MessageLabel     lipgloss.Style

	// Mention dropdown
	Dropdown           lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style

	// AccentColors colour categories that have no configured color.
	AccentColors []lipgloss.TerminalColor
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is the theme selected by ARCHIVE_THEME or tui.theme.
var DefaultTheme = NewThemeWithName(themeName())

// NewThemeWithName constructs a theme from a palette name, falling back to kanagawa.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	builder, ok := themeRegistry[key]
	if !ok {
		key = defaultThemeName
		builder = themeRegistry[key]
	}
	return newThemeFromColors(key, builder())
}

// CategoryStyle returns the badge style for a category. A configured color
// wins; otherwise the category is assigned a stable accent color.
func (t *Theme) CategoryStyle(id, color string) lipgloss.Style {
	var fg lipgloss.TerminalColor
	if color != "" {
		fg = lipgloss.Color(color)
	} else {
		h := fnv.New32a()
		_, _ = h.Write([]byte(id))
		fg = t.AccentColors[h.Sum32()%uint32(len(t.AccentColors))]
	}
	return lipgloss.NewStyle().Foreground(fg).Bold(true)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(name string, colors Colors) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().Bold(true).Foreground(colors.Violet),
		Title:  lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan).Bold(true),

		Bold:        lipgloss.NewStyle().Bold(true),
		Normal:      lipgloss.NewStyle(),
		Muted:       lipgloss.NewStyle().Faint(true),
		Selected:    lipgloss.NewStyle().Background(colors.SelectedBackground).Foreground(colors.LightText),
		SelectedRow: lipgloss.NewStyle().Background(colors.SelectedBackground),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colors.Border),
		TableBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Input:       lipgloss.NewStyle().Foreground(colors.LightText),
		Placeholder: lipgloss.NewStyle().Foreground(colors.MutedText).Italic(true),
		Cursor:      lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),

		Highlight: lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(colors.Violet).Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(colors.LightText).
			Background(colors.SubtleBackground).
			Padding(0, 1),
		AssistantMessage: lipgloss.NewStyle().Padding(0, 1),
		MessageLabel:     lipgloss.NewStyle().Foreground(colors.MutedText).Bold(true),

		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Violet).
			Padding(0, 1),
		Suggestion: lipgloss.NewStyle().Foreground(colors.LightText),
		SuggestionSelected: lipgloss.NewStyle().
			Foreground(colors.LightText).
			Background(colors.SelectedBackground).
			Bold(true),

		AccentColors: []lipgloss.TerminalColor{
			colors.Cyan,
			colors.Blue,
			colors.Violet,
			colors.Pink,
			colors.Green,
			colors.Orange,
		},
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return strings.ReplaceAll(normalized, "_", "-")
}

func themeName() string {
	if name := normalizeThemeName(os.Getenv("ARCHIVE_THEME")); name != "" {
		return name
	}
	cfg, err := config.LoadDefault()
	if err != nil || cfg.TUI == nil || cfg.TUI.Theme == "" {
		return defaultThemeName
	}
	return cfg.TUI.Theme
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func newKanagawaColors() Colors {
	return Colors{
		Green:              adaptive(kanagawaGreenLight, kanagawaGreenDark),
		Yellow:             adaptive(kanagawaYellowLight, kanagawaYellowDark),
		Red:                adaptive(kanagawaRedLight, kanagawaRedDark),
		Orange:             adaptive(kanagawaOrangeLight, kanagawaOrangeDark),
		Cyan:               adaptive(kanagawaCyanLight, kanagawaCyanDark),
		Blue:               adaptive(kanagawaBlueLight, kanagawaBlueDark),
		Violet:             adaptive(kanagawaVioletLight, kanagawaVioletDark),
		Pink:               adaptive(kanagawaPinkLight, kanagawaPinkDark),
		LightText:          adaptive(kanagawaTextLight, kanagawaTextDark),
		MutedText:          adaptive(kanagawaMutedLight, kanagawaMutedDark),
		Border:             adaptive(kanagawaBorderLight, kanagawaBorderDark),
		SelectedBackground: adaptive(kanagawaSelectedBgLight, kanagawaSelectedBgDark),
		SubtleBackground:   adaptive(kanagawaSubtleBgLight, kanagawaSubtleBgDark),
	}
}

// newTerminalColors uses the ANSI palette so the user's terminal scheme applies.
func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color("2"),
		Yellow:             lipgloss.Color("3"),
		Red:                lipgloss.Color("1"),
		Orange:             lipgloss.Color("208"),
		Cyan:               lipgloss.Color("6"),
		Blue:               lipgloss.Color("4"),
		Violet:             lipgloss.Color("5"),
		Pink:               lipgloss.Color("13"),
		LightText:          lipgloss.Color("7"),
		MutedText:          lipgloss.Color("8"),
		Border:             lipgloss.Color("8"),
		SelectedBackground: lipgloss.Color("8"),
		SubtleBackground:   lipgloss.Color("0"),
	}
}
