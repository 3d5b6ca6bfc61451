package naverform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/theme"
)

// SubmitMsg carries the typed Naver credentials.
type SubmitMsg struct {
	Email    string
	Password string
}

// CancelMsg is dispatched when the user closes the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the Naver account connect form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	submitting bool
	width      int
	height     int
}

// New creates a new connect form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start (re)builds the form with the given values. Reopening after a failed
// attempt keeps what the user typed.
func (m *Model) Start(email, password string) tea.Cmd {
	m.fb.email = email
	m.fb.password = password
	m.submitting = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetSubmitting locks the form while the connect request is in flight.
func (m *Model) SetSubmitting(submitting bool) {
	m.submitting = submitting
}

// Submitting reports whether a request is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Update handles messages for the connect form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		email, password := strings.TrimSpace(m.fb.email), m.fb.password
		m.submitting = true
		return m, func() tea.Msg { return SubmitMsg{Email: email, Password: password} }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the connect form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	parts := []string{
		titleStyle.Render("네이버 메일 연결"),
		theme.MutedStyle.Render("네이버 메일 설정에서 IMAP 사용 설정 후 앱 비밀번호를 생성하세요."),
		"",
	}
	if m.submitting {
		parts = append(parts, theme.HelpStyle.Render("연결 중..."))
	} else {
		parts = append(parts, m.form.View(), theme.HelpStyle.Render("esc 취소"))
	}

	return theme.BorderStyle.
		Padding(1, 2).
		Width(m.formWidth() + 4).
		Render(strings.Join(parts, "\n"))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("네이버 이메일").
				Placeholder("example@naver.com").
				Value(&m.fb.email).
				Validate(validateRequired("네이버 이메일")),
			huh.NewInput().
				Title("앱 비밀번호").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("앱 비밀번호")),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) formWidth() int {
	return min(max(m.width-8, 30), 60)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s을(를) 입력하세요", fieldName)
		}
		return nil
	}
}
