// Package login is the signed-out screen: backend status and the Google
// sign-in entry point.
package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/keys"
	"github.com/nhle/mail-organizer/internal/theme"
)

const checkTimeout = 5 * time.Second

// HealthChecker probes the backend.
type HealthChecker interface {
	Health(ctx context.Context) (string, error)
}

// Starter begins the browser sign-in and returns the authorization URL.
type Starter interface {
	Start(ctx context.Context) (string, error)
}

// HealthMsg carries the result of a backend probe.
type HealthMsg struct {
	Status string
	Err    error
}

// StartedMsg carries the result of starting the sign-in.
type StartedMsg struct {
	URL string
	Err error
}

// Model is the login screen.
type Model struct {
	health  HealthChecker
	starter Starter
	keys    *keys.KeyMap
	spinner spinner.Model

	checking  bool
	status    string
	healthErr error

	starting bool
	authURL  string
	startErr error

	width  int
	height int
}

// New creates a login screen model.
func New(h HealthChecker, s Starter, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		health:  h,
		starter: s,
		keys:    k,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init probes the backend.
func (m *Model) Init() tea.Cmd {
	return m.checkHealth()
}

func (m *Model) checkHealth() tea.Cmd {
	if m.health == nil {
		return nil
	}
	m.checking = true
	h := m.health
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		status, err := h.Health(ctx)
		return HealthMsg{Status: status, Err: err}
	})
}

func (m *Model) start() tea.Cmd {
	if m.starter == nil || m.starting {
		return nil
	}
	m.starting = true
	m.startErr = nil
	s := m.starter
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		u, err := s.Start(ctx)
		return StartedMsg{URL: u, Err: err}
	})
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case HealthMsg:
		m.checking = false
		m.status, m.healthErr = msg.Status, msg.Err
		return m, nil

	case StartedMsg:
		m.starting = false
		m.authURL, m.startErr = msg.URL, msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.checking || m.starting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			return m, m.start()
		case key.Matches(msg, m.keys.Refresh):
			if !m.checking {
				return m, m.checkHealth()
			}
		}
	}
	return m, nil
}

// View renders the login screen.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render("Mail Organizer")
	subtitle := theme.MutedStyle.Render("Gmail + 네이버 메일 통합 관리 플랫폼")

	button := theme.ActiveTabStyle.Render("Google 계정으로 로그인")
	if m.starting {
		button = m.spinner.View() + " 브라우저를 여는 중..."
	}

	lines := []string{title, subtitle, "", button, theme.HelpStyle.Render("enter 로그인 · r 서버 확인 · q 종료"), ""}
	lines = append(lines, m.healthLine())

	if m.authURL != "" {
		lines = append(lines, "", theme.MutedStyle.Render("브라우저에서 로그인을 완료하세요:"), m.authURL)
	}
	if m.startErr != nil {
		lines = append(lines, "", theme.NoticeStyle(true).Render(fmt.Sprintf("로그인 시작 실패: %v", m.startErr)))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, strings.Join(lines, "\n")))
}

func (m Model) healthLine() string {
	switch {
	case m.checking:
		return m.spinner.View() + " 서버 확인 중..."
	case m.healthErr != nil:
		return theme.NoticeStyle(true).Render(fmt.Sprintf("서버에 연결할 수 없습니다: %v", m.healthErr))
	case m.status != "":
		return theme.MutedStyle.Render("서버 상태: " + m.status)
	default:
		return ""
	}
}

// AuthURL returns the last authorization URL, for manual use when no
// browser could be opened.
func (m Model) AuthURL() string {
	return m.authURL
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
