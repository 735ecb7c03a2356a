package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Accent defaults to violet and is overridden from the
// ui.accent config value at startup.
var (
	Accent     = lipgloss.Color("#8A2BE2")
	SlateDark  = lipgloss.Color("#111827")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Amber      = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// SetAccent overrides the accent color and rebuilds the styles that
// carry it. Called once before the first render.
func SetAccent(hex string) {
	if hex == "" {
		return
	}
	Accent = lipgloss.Color(hex)
	rebuild()
}

// Text styles
var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	DimStyle      lipgloss.Style
	AccentStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
)

// Section bar styles
var (
	SectionActiveStyle   lipgloss.Style
	SectionInactiveStyle lipgloss.Style
)

// Grid cell styles
var (
	CellStyle         lipgloss.Style
	CellSelectedStyle lipgloss.Style
	CellRequestStyle  lipgloss.Style
)

// List item styles
var (
	SelectedItemStyle lipgloss.Style
	NormalItemStyle   lipgloss.Style
)

// Player bar styles
var (
	PlayerBarStyle     lipgloss.Style
	ProgressFullStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style
	QualityBadgeStyle  lipgloss.Style
)

// Modal styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
)

// Request status badge styles, keyed by lifecycle stage
var (
	BadgePendingStyle     lipgloss.Style
	BadgeDownloadingStyle lipgloss.Style
)

func rebuild() {
	TitleStyle = lipgloss.NewStyle().Foreground(White).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(LightGray)
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green)

	SectionActiveStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Accent).
		Bold(true).
		Padding(0, 2)
	SectionInactiveStyle = lipgloss.NewStyle().
		Foreground(LightGray).
		Padding(0, 2)

	CellStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimGray).
		Padding(0, 1)
	CellSelectedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)
	CellRequestStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(SlateLight).
		Padding(0, 1)
	NormalItemStyle = lipgloss.NewStyle().
		Foreground(LightGray).
		Padding(0, 1)

	PlayerBarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(SlateLight)
	ProgressFullStyle = lipgloss.NewStyle().Foreground(Accent)
	ProgressEmptyStyle = lipgloss.NewStyle().Foreground(DimGray)
	QualityBadgeStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(SlateLight).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2).
		Background(SlateDark)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(White).
		Bold(true).
		MarginBottom(1)

	BadgePendingStyle = lipgloss.NewStyle().Foreground(Amber)
	BadgeDownloadingStyle = lipgloss.NewStyle().Foreground(Accent)
}

func init() {
	rebuild()
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// RenderProgressBar renders a playback progress bar
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < filled; i++ {
		bar += ProgressFullStyle.Render("█")
	}
	for i := filled; i < width; i++ {
		bar += ProgressEmptyStyle.Render("░")
	}
	return bar
}

// FormatTicks renders a tick position as h:mm:ss or m:ss
func FormatTicks(ticks int64) string {
	secs := ticks / 10_000_000
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
