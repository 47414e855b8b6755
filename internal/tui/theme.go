package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alvinow/folio/internal/bridge"
)

// ---------------------------------------------------------------------------
// Shell chrome palette — Catppuccin Mocha true-color hex values
// ---------------------------------------------------------------------------

const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"

	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorPeach    lipgloss.Color = "#fab387"
)

const (
	colorBrand   = colorPink
	colorAccent  = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

// ---------------------------------------------------------------------------
// Reader themes — mirror the renderer's {light, dark, sepia} vocabulary so
// the shell's reading panel matches what the frame shows.
// ---------------------------------------------------------------------------

type readerTheme struct {
	name   string
	fg     lipgloss.Color
	bg     lipgloss.Color
	accent lipgloss.Color
}

var readerThemes = []readerTheme{
	{name: bridge.ThemeLight, fg: "#2e2e2e", bg: "#fafafa", accent: "#3763c4"},
	{name: bridge.ThemeDark, fg: "#d6d6d6", bg: "#1b1b1f", accent: "#8aadf4"},
	{name: bridge.ThemeSepia, fg: "#5b4636", bg: "#f4ecd8", accent: "#8a6d3b"},
}

// themeByName resolves a configured theme name, falling back to light.
func themeByName(name string) readerTheme {
	for _, t := range readerThemes {
		if t.name == name {
			return t
		}
	}
	return readerThemes[0]
}

// nextTheme returns the theme after t in cycle order.
func nextTheme(t readerTheme) readerTheme {
	for i, cand := range readerThemes {
		if cand.name == t.name {
			return readerThemes[(i+1)%len(readerThemes)]
		}
	}
	return readerThemes[0]
}

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 2)

	snackbarStyle = lipgloss.NewStyle().
			Foreground(colorMantle).
			Background(colorTeal).
			Padding(0, 2)

	snackbarErrStyle = lipgloss.NewStyle().
				Foreground(colorMantle).
				Background(colorError).
				Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	debugHeaderStyle = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	debugTimeStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)

	spinnerStyle = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorOverlay0)
	readyStyle   = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(colorWarning)
	cursorStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)
