package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// The header, source tabs and status bar each take one row.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, tabs and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.TabsHeight-l.StatusBarHeight, 0)
}

// SidebarWidth is the width of the category column.
func (l Layout) SidebarWidth() int {
	return min(max(l.Width/4, 24), 36)
}

// MainWidth is what remains next to the sidebar.
func (l Layout) MainWidth() int {
	return max(l.Width-l.SidebarWidth(), 0)
}

// RenderHeader renders the top header bar with a title and the status
// text (busy labels and the signed-in address).
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := max(l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(statusRendered), 0)

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderTabs renders the source filter tabs followed by the action hints.
func (l Layout) RenderTabs(active model.SourceFilter, actions string) string {
	tabs := make([]string, 0, len(model.SourceFilters))
	for i, f := range model.SourceFilters {
		label := string(rune('1'+i)) + " " + f.Label()
		if f == active {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(label))
		}
	}
	left := strings.Join(tabs, " ")

	gap := max(l.Width-lipgloss.Width(left)-lipgloss.Width(actions), 1)
	return left + strings.Repeat(" ", gap) + actions
}

// RenderStatusBar renders the bottom status bar. A notice takes precedence
// over the keyboard hints.
func (l Layout) RenderStatusBar(hints string, notice model.Notice) string {
	text := hints
	if notice.Text != "" {
		text = theme.NoticeStyle(notice.Level == model.NoticeError).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(notice.Text)
	}
	rendered := theme.StatusBarStyle.Render(text)

	gap := max(l.Width-lipgloss.Width(rendered), 0)

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, tabs, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	tabs string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		tabs,
		content,
		statusBar,
	)
}
