// Package catpicker is the category correction dialog.
package catpicker

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/theme"
)

// PickedMsg is dispatched when the user chooses a category.
type PickedMsg struct {
	MailID           int64
	ClassificationID int64
	Category         string
}

// CancelMsg is dispatched when the user dismisses the picker.
type CancelMsg struct{}

type formBindings struct {
	category string
}

// Model lists the category vocabulary for one classified message.
type Model struct {
	form             *huh.Form
	fb               *formBindings
	mailID           int64
	classificationID int64
	width            int
	height           int
}

// New creates a new picker model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start opens the picker for a message with the current category
// preselected.
func (m *Model) Start(mailID, classificationID int64, current string, categories []string) tea.Cmd {
	m.mailID = mailID
	m.classificationID = classificationID
	m.fb.category = current

	opts := make([]huh.Option[string], len(categories))
	for i, c := range categories {
		opts[i] = huh.NewOption(theme.CategoryStyle(c).Render(c), c)
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("분류 변경").
				Options(opts...).
				Value(&m.fb.category),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// MailID returns the message being edited.
func (m Model) MailID() int64 {
	return m.mailID
}

// Update handles messages for the picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		picked := PickedMsg{MailID: m.mailID, ClassificationID: m.classificationID, Category: m.fb.category}
		m.form = nil
		return m, func() tea.Msg { return picked }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.form.View(),
		theme.HelpStyle.Render("enter 선택 · esc 취소"),
	)
	return theme.BorderStyle.Padding(0, 1).Render(content)
}

// SetSize updates the picker dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width/3, 20), 40)
}
