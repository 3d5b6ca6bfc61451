package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/keys"
	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/theme"
	"github.com/nhle/mail-organizer/internal/ui/widget"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EditMsg asks the parent to open the category picker for the message.
type EditMsg struct {
	MailID int64
}

// Model is the message detail view component.
type Model struct {
	mail     *model.MailDetail
	viewport viewport.Model
	keys     *keys.KeyMap
	loc      *time.Location
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		loc:      time.Local,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			if m.mail != nil && m.mail.Classification.IsClassified() {
				id := m.mail.ID
				return m, func() tea.Msg {
					return EditMsg{MailID: id}
				}
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	back := lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("← 목록으로") +
		theme.HelpStyle.Render("  (esc)")

	if m.loading || m.mail == nil {
		text := "메일을 불러오는 중..."
		if !m.loading {
			text = "선택된 메일이 없습니다"
		}
		placeholder := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height-2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(text)
		return lipgloss.JoinVertical(lipgloss.Left, back, "", placeholder)
	}

	return lipgloss.JoinVertical(lipgloss.Left, back, "", m.viewport.View())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.mail == nil {
		return ""
	}

	mail := m.mail
	var sections []string

	// Provider, and the folder for Naver mail
	badgeLine := widget.SourceBadge(mail.Source, false)
	if mail.Source == model.SourceNaver && mail.Folder != "" {
		badgeLine += "  " + theme.MutedStyle.Render(mail.Folder)
	}
	sections = append(sections, badgeLine)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(mail.DisplaySubject()))
	sections = append(sections, "")

	sender := lipgloss.NewStyle().Bold(true).Render(mail.Sender())
	if mail.FromName != "" {
		sender += " " + theme.MutedStyle.Render("<"+mail.FromEmail+">")
	}
	received := widget.FormatDateTime(mail.ReceivedAt.TimeOrNil(), m.loc)
	sections = append(sections, fmt.Sprintf("%s   %s", sender, theme.MutedStyle.Render(received)))

	if mail.Classification.IsClassified() {
		sections = append(sections, "")
		sections = append(sections, fmt.Sprintf(
			"%s %s  %s",
			theme.MutedStyle.Render("분류:"),
			widget.CategoryBadge(mail.Classification, false),
			theme.HelpStyle.Render("→ e 분류 변경"),
		))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	body := lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(mail.DisplayBody())
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetMail updates the message being displayed and re-renders the content.
// Passing the same message again keeps the scroll position.
func (m *Model) SetMail(detail *model.MailDetail) {
	sameMail := m.mail != nil && detail != nil && m.mail.ID == detail.ID
	m.mail = detail
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	if !sameMail {
		m.viewport.GotoTop()
	}
}

// Mail returns the displayed message.
func (m Model) Mail() *model.MailDetail {
	return m.mail
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetLocation sets the zone used for the received time.
func (m *Model) SetLocation(loc *time.Location) {
	m.loc = loc
	m.viewport.SetContent(m.renderContent())
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
