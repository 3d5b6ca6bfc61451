package maillist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/keys"
	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/theme"
	"github.com/nhle/mail-organizer/internal/ui/widget"
)

// SelectedMailMsg is sent when the user opens a message.
type SelectedMailMsg struct {
	MailID int64
}

// EditMsg asks the parent to open the category picker for a message.
type EditMsg struct {
	MailID int64
}

// PickUpMsg starts moving a message to another category.
type PickUpMsg struct {
	MailID int64
}

// PageMsg asks for the next or previous page.
type PageMsg struct {
	Next bool
}

// Page is everything the list shows about the current page.
type Page struct {
	Messages   []model.MailMessage
	Total      int
	Classified int
	Pagination widget.Pagination
}

// Model is the message list view component.
type Model struct {
	list       list.Model
	keys       *keys.KeyMap
	state      *rowState
	loading    bool
	total      int
	classified int
	pagination widget.Pagination
	width      int
	height     int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	state := &rowState{now: time.Now}
	l := list.New([]list.Item{}, ItemDelegate{state: state}, width, height-3)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:   l,
		keys:   k,
		state:  state,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the message list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if id, ok := m.SelectedID(); ok {
			return m, func() tea.Msg { return SelectedMailMsg{MailID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if mail, ok := m.selected(); ok && mail.Classification.IsClassified() {
			return m, func() tea.Msg { return EditMsg{MailID: mail.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Move):
		if id, ok := m.SelectedID(); ok {
			return m, func() tea.Msg { return PickUpMsg{MailID: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.pagination.NextEnabled() {
			return m, func() tea.Msg { return PageMsg{Next: true} }
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.pagination.PrevEnabled() {
			return m, func() tea.Msg { return PageMsg{Next: false} }
		}
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) selected() (model.MailMessage, bool) {
	item, ok := m.list.SelectedItem().(MailItem)
	if !ok {
		return model.MailMessage{}, false
	}
	return item.Mail, true
}

// SelectedID returns the id of the highlighted message.
func (m Model) SelectedID() (int64, bool) {
	mail, ok := m.selected()
	return mail.ID, ok
}

// SetPage replaces the rows. The cursor stays on the same message when it
// is still listed.
func (m *Model) SetPage(p Page) tea.Cmd {
	prev, hadPrev := m.SelectedID()

	items := make([]list.Item, len(p.Messages))
	cursor := 0
	for i, mail := range p.Messages {
		items[i] = MailItem{Mail: mail}
		if hadPrev && mail.ID == prev {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(cursor)

	m.total = p.Total
	m.classified = p.Classified
	m.pagination = p.Pagination
	return cmd
}

// SetLoading toggles the loading placeholder.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetMoving marks the message being moved, or clears the mark with 0.
func (m *Model) SetMoving(mailID int64) {
	m.state.moving = mailID
}

// SetClock sets the clock used to format dates.
func (m *Model) SetClock(now func() time.Time) {
	m.state.now = now
}

// View renders the message list view.
func (m Model) View() string {
	if m.loading {
		return m.placeholder("로딩 중...")
	}
	if len(m.list.Items()) == 0 {
		return m.placeholder("메일이 없습니다.\n\n" +
			theme.HelpStyle.Render("s 키를 눌러 메일을 동기화하세요."))
	}

	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.MutedStyle.Render(widget.TotalText(m.total)),
		"   ",
		theme.MutedStyle.Render(widget.ClassifiedText(m.classified, len(m.list.Items()))),
	)

	parts := []string{summary, m.list.View()}
	if pages := m.pagination.View(); pages != "" {
		parts = append(parts, lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(pages))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) placeholder(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
}
