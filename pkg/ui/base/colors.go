package base

import "github.com/charmbracelet/lipgloss"

// ColorPalette groups the colors one theme uses.
type ColorPalette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DarkPalette is the shell's theme.
var DarkPalette = ColorPalette{
	Primary:   lipgloss.Color("#7C3AED"), // purple
	Secondary: lipgloss.Color("#06B6D4"), // cyan
	Accent:    lipgloss.Color("#10B981"), // emerald
	Warning:   lipgloss.Color("#F59E0B"), // amber
	Error:     lipgloss.Color("#EF4444"), // red
	Muted:     lipgloss.Color("#94A3B8"), // slate
}
