package sidebar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/keys"
	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/theme"
	"github.com/nhle/mail-organizer/internal/ui/widget"
)

// visibleRules is how many sender rules are listed before "외 N건".
const visibleRules = 5

// FilterMsg selects a category filter. "" is the all row.
type FilterMsg struct {
	Category string
}

// HoverMsg reports the row under the cursor while a message is carried.
type HoverMsg struct {
	Category string
}

// DropMsg releases the carried message.
type DropMsg struct{}

// CancelDragMsg abandons the move.
type CancelDragMsg struct{}

// Row is one entry of the category navigation.
type Row struct {
	// Category is the filter value: "" for all, a category name, or the
	// unclassified sentinel.
	Category string
	Label    string

	// Count is nil while the counts are unknown.
	Count *int
}

// Model is the category sidebar: filters, drop targets and the learning
// summary.
type Model struct {
	keys      *keys.KeyMap
	counts    *model.CategoryCounts
	feedback  *model.FeedbackStats
	cursor    int
	active    string
	dragging  bool
	target    string
	showRules bool
	focused   bool
	width     int
	height    int
}

// New creates a new sidebar model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Rows lists the navigation entries: all, every counted category, then
// unclassified.
func (m Model) Rows() []Row {
	var total, unclassified *int
	var cats []model.CategoryCount
	if m.counts != nil {
		total, unclassified = &m.counts.Total, &m.counts.Unclassified
		cats = m.counts.Categories
	}

	rows := make([]Row, 0, len(cats)+2)
	rows = append(rows, Row{Category: "", Label: "전체", Count: total})
	for _, c := range cats {
		rows = append(rows, Row{Category: c.Name, Label: c.Name, Count: &c.Count})
	}
	rows = append(rows, Row{Category: model.CategoryUnclassified, Label: "미분류", Count: unclassified})
	return rows
}

// Update handles messages for the sidebar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	rows := m.Rows()

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, m.hover(rows)

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, m.hover(rows)

	case key.Matches(keyMsg, m.keys.Select):
		if m.dragging {
			return m, func() tea.Msg { return DropMsg{} }
		}
		category := rows[m.cursor].Category
		return m, func() tea.Msg { return FilterMsg{Category: category} }

	case key.Matches(keyMsg, m.keys.Back):
		if m.dragging {
			return m, func() tea.Msg { return CancelDragMsg{} }
		}

	case key.Matches(keyMsg, m.keys.Rules):
		m.showRules = !m.showRules
	}
	return m, nil
}

func (m Model) hover(rows []Row) tea.Cmd {
	if !m.dragging {
		return nil
	}
	category := rows[m.cursor].Category
	return func() tea.Msg { return HoverMsg{Category: category} }
}

// CursorCategory returns the filter value of the row under the cursor.
func (m Model) CursorCategory() string {
	return m.Rows()[m.cursor].Category
}

// SetCounts updates the category totals, keeping the cursor in range.
func (m *Model) SetCounts(c *model.CategoryCounts) {
	m.counts = c
	if n := len(m.Rows()); m.cursor >= n {
		m.cursor = n - 1
	}
}

// SetFeedback updates the learning summary.
func (m *Model) SetFeedback(f *model.FeedbackStats) {
	m.feedback = f
}

// SetActive marks the current category filter.
func (m *Model) SetActive(category string) {
	m.active = category
}

// SetDrag shows whether a message is being carried and over which target.
func (m *Model) SetDrag(dragging bool, target string) {
	m.dragging = dragging
	m.target = target
}

// SetFocused toggles keyboard focus.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Focused reports whether the sidebar has keyboard focus.
func (m Model) Focused() bool {
	return m.focused
}

// ShowRules reports whether the sender rule details are expanded.
func (m Model) ShowRules() bool {
	return m.showRules
}

// View renders the sidebar.
func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)
	inner := max(m.width-2, 10)

	lines := []string{heading.Render("카테고리"), ""}
	for i, row := range m.Rows() {
		lines = append(lines, m.renderRow(row, i == m.cursor, inner))
	}

	lines = append(lines, "", heading.Render("학습 현황"), "")
	lines = append(lines, m.renderFeedback(inner)...)

	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(theme.ColorBorder)
	if m.focused {
		style = style.BorderForeground(theme.ColorBlue)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(row Row, atCursor bool, width int) string {
	count := "-"
	if row.Count != nil {
		count = strconv.Itoa(*row.Count)
	}

	label := row.Label
	if row.Category != "" && row.Category != model.CategoryUnclassified {
		label = theme.CategoryStyle(row.Category).Render("●") + " " + label
	}
	gap := max(width-lipgloss.Width(label)-lipgloss.Width(count)-2, 1)
	line := label + strings.Repeat(" ", gap) + theme.MutedStyle.Render(count)

	switch {
	case m.dragging && row.Category != "" && row.Category == m.target:
		return theme.DropTargetStyle.Render(line)
	case m.focused && atCursor:
		return theme.SelectedItemStyle.Render(line)
	case row.Category == m.active:
		return theme.ListItemStyle.Bold(true).Render(line)
	default:
		return theme.ListItemStyle.Render(line)
	}
}

func (m Model) renderFeedback(width int) []string {
	if m.feedback == nil || m.feedback.TotalFeedbacks == 0 {
		return []string{theme.HelpStyle.Render("분류를 수정하면 AI가 학습합니다")}
	}

	f := m.feedback
	lines := []string{
		fmt.Sprintf("피드백 %d건", f.TotalFeedbacks),
		fmt.Sprintf("발신자 규칙 %d건", len(f.SenderRules)),
	}
	if len(f.SenderRules) == 0 {
		return lines
	}

	arrow := "▼"
	if m.showRules {
		arrow = "▲"
	}
	lines = append(lines, "", theme.MutedStyle.Render("발신자 규칙 상세 "+arrow+" (f)"))
	if !m.showRules {
		return lines
	}

	for i, rule := range f.SenderRules {
		if i == visibleRules {
			break
		}
		lines = append(lines,
			widget.Truncate(rule.FromEmail, width),
			fmt.Sprintf("→ %s %s",
				theme.CategoryStyle(rule.Category).Render(rule.Category),
				theme.MutedStyle.Render(fmt.Sprintf("(%d건)", rule.Count))),
		)
	}
	if extra := len(f.SenderRules) - visibleRules; extra > 0 {
		lines = append(lines, theme.MutedStyle.Render(fmt.Sprintf("외 %d건", extra)))
	}
	return lines
}
