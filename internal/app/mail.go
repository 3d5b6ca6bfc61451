package app

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/ui/widget"
)

// openDetail switches to the detail view and starts loading mailID.
func (m Model) openDetail(mailID int64) (Model, tea.Cmd) {
	cmd := m.dash.SelectMail(mailID)
	if cmd == nil {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.detail.SetLoading(true)
	return m, cmd
}

// openPicker opens the category picker for a classified message, from
// either the list or the open detail.
func (m Model) openPicker(mailID int64) (Model, tea.Cmd) {
	classification := model.Unclassified()
	if d := m.dash.Detail(); d != nil && d.ID == mailID {
		classification = d.Classification
	} else if mail, ok := m.dash.List().Find(mailID); ok {
		classification = mail.Classification
	}

	info, ok := classification.Info()
	if !ok {
		return m, nil
	}
	m.dash.StartEdit(mailID)
	m.previousView = m.currentView
	m.currentView = ViewCategoryPicker
	return m, m.catPicker.Start(mailID, info.ClassificationID, info.Category, m.dash.Categories())
}

func (m Model) openNaver() (Model, tea.Cmd) {
	if m.dash.UserID() == 0 {
		return m, nil
	}
	m.dash.OpenNaver()
	naver := m.dash.Naver()
	m.previousView = m.currentView
	m.currentView = ViewNaver
	return m, m.naverForm.Start(naver.Email(), naver.Password())
}

// closeNaver dismisses the connect form unless a request is in flight.
func (m Model) closeNaver() (Model, tea.Cmd) {
	m.dash.CloseNaver()
	if m.dash.Naver().IsOpen() {
		return m, nil
	}
	m.currentView = m.previousView
	return m, nil
}

// afterNaverAttempt closes the form after a successful link, or reopens it
// with the typed values after a failure.
func (m *Model) afterNaverAttempt() tea.Cmd {
	if m.currentView != ViewNaver {
		return nil
	}
	naver := m.dash.Naver()
	if !naver.IsOpen() {
		m.currentView = m.previousView
		return nil
	}
	return m.naverForm.Start(naver.Email(), naver.Password())
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(input string) tea.Cmd {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	if m.dash.UserID() == 0 && name != "quit" && name != "q" {
		return nil
	}

	switch name {
	case "sync":
		return m.dash.Sync()
	case "classify":
		return m.dash.Classify()
	case "labels":
		return m.dash.ApplyLabels()
	case "refresh":
		return m.refresh()
	case "naver":
		mdl, cmd := m.openNaver()
		*m = mdl
		return cmd
	case "source":
		f := model.SourceFilter(arg)
		if f != model.FilterAll && f != model.FilterGmail && f != model.FilterNaver {
			return nil
		}
		return m.dash.SetSource(f)
	case "category":
		switch arg {
		case "all", "전체":
			arg = ""
		case "미분류":
			arg = model.CategoryUnclassified
		}
		return m.dash.SetCategory(arg)
	case "logout":
		m.dash.Logout(context.Background())
		return nil
	case "quit", "q":
		return m.quit()
	default:
		m.log.Debug().Str("command", input).Msg("unknown command")
		return nil
	}
}

func sourceForKey(k string) model.SourceFilter {
	switch k {
	case "2":
		return model.FilterGmail
	case "3":
		return model.FilterNaver
	default:
		return model.FilterAll
	}
}

func widgetPagination(cur, pages int) widget.Pagination {
	return widget.Pagination{Current: cur, Total: pages}
}

func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func placeCenter(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
