package theme

import "os"

// Icons used across the CLI and TUI. Nerd Font glyphs by default;
// ARCHIVE_ICONS=ascii switches to plain fallbacks.
var (
	IconSuccess  = "󰄬"
	IconError    = ""
	IconWarning  = ""
	IconInfo     = "󰋼"
	IconArrow    = "󰁔"
	IconBullet   = ""
	IconArchive  = "󰀼"
	IconAgent    = ""
	IconUser     = ""
	IconLocation = "󰍎"
	IconTag      = "󰓹"
	IconField    = "󰉋"
)

func init() {
	if os.Getenv("ARCHIVE_ICONS") == "ascii" {
		useASCIIIcons()
	}
}

func useASCIIIcons() {
	IconSuccess = "✓"
	IconError = "✗"
	IconWarning = "⚠"
	IconInfo = "ℹ"
	IconArrow = "→"
	IconBullet = "•"
	IconArchive = "[A]"
	IconAgent = "AI"
	IconUser = ">"
	IconLocation = "@"
	IconTag = "#"
	IconField = "[F]"
}
