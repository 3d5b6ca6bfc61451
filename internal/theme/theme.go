package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the message body.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// MutedStyle renders secondary text such as counts and dates.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DisabledStyle renders controls that cannot be used right now.
var DisabledStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// TabStyle renders an unselected source filter tab.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// ActiveTabStyle renders the selected source filter tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// DropTargetStyle outlines the category a message is about to be dropped on.
var DropTargetStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// categoryColors follows the fixed category vocabulary.
var categoryColors = map[string]lipgloss.AdaptiveColor{
	"업무":   ColorBlue,
	"개인":   ColorGreen,
	"금융":   ColorYellow,
	"프로모션": ColorOrange,
	"뉴스레터": ColorMagenta,
	"알림":   ColorGray,
	"중요":   ColorRed,
}

// CategoryColor returns the accent color of a category. Unknown
// categories get the neutral color.
func CategoryColor(category string) lipgloss.AdaptiveColor {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return ColorWhite
}

// CategoryStyle returns the badge style for a category.
func CategoryStyle(category string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CategoryColor(category))
}

// SourceStyle returns a color-coded style for a provider.
func SourceStyle(source string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch source {
	case "gmail":
		return base.Foreground(ColorBlue)
	case "naver":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// NoticeStyle returns the status bar style for a notice.
func NoticeStyle(isError bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if isError {
		return base.Foreground(ColorRed)
	}
	return base.Foreground(ColorGreen)
}
