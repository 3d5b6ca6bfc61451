package app

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-organizer/internal/inbox"
	"github.com/nhle/mail-organizer/internal/keys"
	"github.com/nhle/mail-organizer/internal/session"
	appsync "github.com/nhle/mail-organizer/internal/sync"
	"github.com/nhle/mail-organizer/internal/theme"
	"github.com/nhle/mail-organizer/internal/ui"
	"github.com/nhle/mail-organizer/internal/ui/catpicker"
	"github.com/nhle/mail-organizer/internal/ui/command"
	"github.com/nhle/mail-organizer/internal/ui/detail"
	helpview "github.com/nhle/mail-organizer/internal/ui/help"
	"github.com/nhle/mail-organizer/internal/ui/login"
	"github.com/nhle/mail-organizer/internal/ui/maillist"
	"github.com/nhle/mail-organizer/internal/ui/naverform"
	"github.com/nhle/mail-organizer/internal/ui/sidebar"
)

// noticeTTL is how long a notice stays in the status bar.
const noticeTTL = 5 * time.Second

// noticeExpiredMsg dismisses the notice raised at At, if it is still shown.
type noticeExpiredMsg struct {
	At time.Time
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewLogin
	ViewList
	ViewDetail
	ViewHelp
	ViewCommand
	ViewNaver
	ViewCategoryPicker
)

// Options wires the root model to the rest of the application.
type Options struct {
	Dashboard *inbox.Dashboard
	Session   *session.Session

	// Health and Login drive the signed-out screen. Either may be nil.
	Health login.HealthChecker
	Login  login.Starter

	// Refresher, when set, periodically re-reads the list and counts.
	Refresher *appsync.Refresher

	Log zerolog.Logger
}

// Model is the root Bubble Tea model that manages view routing, layout and
// the hand-off between the session and the dashboard.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	log          zerolog.Logger

	dash        *inbox.Dashboard
	session     *session.Session
	sessions    *appsync.Bridge[session.Snapshot]
	unsubscribe func()
	refresher   *appsync.Refresher

	loginView   login.Model
	mailList    maillist.Model
	sidebar     sidebar.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	naverForm   naverform.Model
	catPicker   catpicker.Model

	sidebarFocused bool
	noticeAt       time.Time
	ready          bool
}

// New creates the root application model. Session changes made on any
// goroutine reach the program through a bridge subscription.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	bridge := appsync.NewBridge[session.Snapshot]()

	var unsubscribe func()
	if opts.Session != nil {
		unsubscribe = opts.Session.OnChange(bridge.Send)
	}

	return Model{
		currentView: ViewLoading,
		keys:        k,
		log:         opts.Log.With().Str("component", "app").Logger(),
		dash:        opts.Dashboard,
		session:     opts.Session,
		sessions:    bridge,
		unsubscribe: unsubscribe,
		refresher:   opts.Refresher,
		loginView:   login.New(opts.Health, opts.Login, k, 80, 24),
		mailList:    maillist.New(k, 80, 24),
		sidebar:     sidebar.New(k, 24, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		naverForm:   naverform.New(80, 24),
		catPicker:   catpicker.New(80, 24),
	}
}

// Init delivers the hydrated session. Handling it starts listening for
// changes.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.session != nil {
		snap := m.session.Snapshot()
		cmds = append(cmds, func() tea.Msg { return snap })
	}
	if m.refresher != nil {
		cmds = append(cmds, m.refresher.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view. The views are
// refreshed from the dashboard after every message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.route(msg)
	return m, tea.Batch(cmd, m.syncViews())
}

func (m Model) route(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case session.Snapshot:
		return m.handleSession(msg)

	case appsync.TickMsg:
		return m, tea.Batch(m.dash.Refresh(), m.refresher.WaitForNextTick())

	case noticeExpiredMsg:
		if m.dash.Notice().CreatedAt.Equal(msg.At) {
			m.dash.DismissNotice()
		}
		return m, nil

	case inbox.UserLoadedMsg, inbox.CategoriesLoadedMsg, inbox.MessagesLoadedMsg,
		inbox.CountsLoadedMsg, inbox.FeedbackLoadedMsg,
		inbox.SyncDoneMsg, inbox.ClassifyDoneMsg, inbox.LabelsAppliedMsg,
		inbox.CategoryUpdatedMsg, inbox.DropDoneMsg:
		return m, m.dash.Update(msg)

	case inbox.DetailLoadedMsg:
		cmd := m.dash.Update(msg)
		// A failed fetch leaves the user on the list.
		if m.currentView == ViewDetail && m.dash.Detail() == nil && !m.dash.DetailLoading() {
			m.currentView = ViewList
		}
		return m, cmd

	case inbox.NaverLinkedMsg:
		cmd := m.dash.Update(msg)
		return m, tea.Batch(cmd, m.afterNaverAttempt())

	case login.HealthMsg, login.StartedMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd

	case maillist.SelectedMailMsg:
		return m.openDetail(msg.MailID)

	case maillist.EditMsg:
		return m.openPicker(msg.MailID)

	case detail.EditMsg:
		return m.openPicker(msg.MailID)

	case maillist.PickUpMsg:
		if m.dash.PickUp(msg.MailID) {
			m.setSidebarFocus(true)
			m.dash.Hover(m.sidebar.CursorCategory())
		}
		return m, nil

	case maillist.PageMsg:
		if msg.Next {
			return m, m.dash.NextPage()
		}
		return m, m.dash.PrevPage()

	case sidebar.FilterMsg:
		m.setSidebarFocus(false)
		return m, m.dash.SetCategory(msg.Category)

	case sidebar.HoverMsg:
		m.dash.Hover(msg.Category)
		return m, nil

	case sidebar.DropMsg:
		m.setSidebarFocus(false)
		return m, m.dash.Drop()

	case sidebar.CancelDragMsg:
		m.dash.CancelDrag()
		m.setSidebarFocus(false)
		return m, nil

	case detail.BackMsg:
		m.dash.CloseDetail()
		m.currentView = ViewList
		return m, nil

	case catpicker.PickedMsg:
		m.currentView = m.previousView
		return m, m.dash.UpdateCategory(msg.ClassificationID, msg.Category, msg.MailID)

	case catpicker.CancelMsg:
		m.dash.CancelEdit()
		m.currentView = m.previousView
		return m, nil

	case naverform.SubmitMsg:
		cmd := m.dash.ConnectNaver(msg.Email, msg.Password)
		if cmd == nil {
			return m, m.naverForm.Start(msg.Email, msg.Password)
		}
		m.naverForm.SetSubmitting(true)
		return m, cmd

	case naverform.CancelMsg:
		return m.closeNaver()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleSession follows the signed-in user. Every change of user id resets
// the dashboard and reloads it for the new user.
func (m Model) handleSession(snap session.Snapshot) (Model, tea.Cmd) {
	wait := m.sessions.Wait()

	switch snap.Status {
	case session.StatusUnhydrated:
		m.currentView = ViewLoading
		return m, wait

	case session.StatusSignedOut:
		cmd := m.dash.SetUser(0)
		if m.currentView == ViewLogin {
			return m, tea.Batch(wait, cmd)
		}
		m.log.Info().Msg("signed out")
		m.currentView = ViewLogin
		m.setSidebarFocus(false)
		return m, tea.Batch(wait, cmd, m.loginView.Init())

	default:
		cmd := m.dash.SetUser(snap.UserID)
		if m.currentView == ViewLoading || m.currentView == ViewLogin {
			m.currentView = ViewList
		}
		return m, tea.Batch(wait, cmd)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.currentView {
	case ViewHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			m.currentView = m.previousView
		}
		return m, nil

	case ViewCommand:
		if msg.String() == "esc" {
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewNaver:
		if msg.String() == "esc" {
			return m.closeNaver()
		}
		return m.updateActiveView(msg)

	case ViewCategoryPicker:
		if msg.String() == "esc" {
			m.dash.CancelEdit()
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewLoading:
		if msg.String() == "q" {
			return m, m.quit()
		}
		return m, nil

	case ViewLogin:
		if msg.String() == "q" {
			return m, m.quit()
		}
		return m.updateActiveView(msg)
	}

	// List and detail share the global keys.
	switch msg.String() {
	case "?":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()
	}

	if m.currentView == ViewDetail {
		return m.updateActiveView(msg)
	}

	// While a message is carried only the sidebar listens.
	if m.dash.Drag().Active() {
		return m.updateActiveView(msg)
	}

	switch msg.String() {
	case "q":
		return m, m.quit()
	case "tab":
		m.setSidebarFocus(!m.sidebarFocused)
		return m, nil
	case "1", "2", "3":
		return m, m.dash.SetSource(sourceForKey(msg.String()))
	case "s":
		return m, m.dash.Sync()
	case "c":
		return m, m.dash.Classify()
	case "L":
		return m, m.dash.ApplyLabels()
	case "N":
		return m.openNaver()
	case "X":
		m.dash.Logout(context.Background())
		return m, nil
	case "r":
		return m, m.refresh()
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewList:
		if m.sidebarFocused {
			m.sidebar, cmd = m.sidebar.Update(msg)
		} else {
			m.mailList, cmd = m.mailList.Update(msg)
		}
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewNaver:
		m.naverForm, cmd = m.naverForm.Update(msg)
	case ViewCategoryPicker:
		m.catPicker, cmd = m.catPicker.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "로딩 중..."
	}

	switch m.currentView {
	case ViewLoading:
		return theme.HelpStyle.Render("로딩 중...")
	case ViewLogin:
		return m.loginView.View()
	}

	header := m.layout.RenderHeader("Mail Organizer", m.headerStatus())
	tabs := m.layout.RenderTabs(m.dash.List().Query().Source, m.actionHints())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.dash.Notice())

	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.withSidebar(m.mailList.View())
	case ViewDetail:
		return m.withSidebar(m.detail.View())
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewNaver:
		return m.overlay(m.naverForm.View())
	case ViewCategoryPicker:
		return m.overlay(m.catPicker.View())
	default:
		return ""
	}
}

// headerStatus lists the running actions followed by the account address.
func (m Model) headerStatus() string {
	var parts []string
	if m.dash.Syncing() {
		parts = append(parts, "동기화 중...")
	}
	if m.dash.Classifying() {
		parts = append(parts, "분류 중...")
	}
	if m.dash.ApplyingLabels() {
		parts = append(parts, "라벨 적용 중...")
	}
	if m.dash.Dropping() {
		parts = append(parts, "이동 중...")
	}
	if u := m.dash.User(); u != nil {
		parts = append(parts, u.Email)
	}
	return strings.Join(parts, " | ")
}

// actionHints renders the action controls next to the source tabs,
// dimming the ones that cannot run right now.
func (m Model) actionHints() string {
	control := func(label string, enabled bool) string {
		if enabled {
			return theme.MutedStyle.Render(label)
		}
		return theme.DisabledStyle.Render(label)
	}
	hints := []string{
		control("s 동기화", !m.dash.Syncing()),
		control("c AI 분류", !m.dash.Classifying()),
	}
	if m.dash.CanApplyLabels() {
		hints = append(hints, control("L Gmail 라벨 적용", !m.dash.ApplyingLabels()))
	}
	if u := m.dash.User(); u == nil || !u.NaverConnected {
		hints = append(hints, control("N 네이버 연결", true))
	}
	return strings.Join(hints, "  ")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? 닫기 | esc 뒤로"
	case ViewCommand:
		return "enter 실행 | esc 닫기"
	case ViewDetail:
		return "esc 목록 | e 분류 변경 | j/k 스크롤"
	case ViewNaver:
		return "enter 연결 | esc 취소"
	case ViewCategoryPicker:
		return "enter 선택 | esc 취소"
	}
	if m.dash.Drag().Active() {
		return "j/k 카테고리 선택 | enter 놓기 | esc 취소"
	}
	if m.sidebarFocused {
		return "enter 필터 | f 발신자 규칙 | tab 메일 목록"
	}
	return "q 종료 | ? 도움말 | enter 열기 | e 분류 변경 | m 이동 | n/p 페이지 | tab 카테고리 | X 로그아웃"
}

func (m Model) withSidebar(main string) string {
	return joinColumns(m.sidebar.View(), main)
}

func (m Model) overlay(content string) string {
	return placeCenter(m.layout.ContentWidth(), m.layout.ContentHeight(), content)
}

func (m *Model) resize() {
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	side, main := m.layout.SidebarWidth(), m.layout.MainWidth()

	m.loginView.SetSize(m.layout.Width, m.layout.Height)
	m.sidebar.SetSize(side, h)
	m.mailList.SetSize(main, h)
	m.detail.SetSize(main, h)
	m.helpView.SetSize(w, h)
	m.commandView.SetSize(w, h)
	m.naverForm.SetSize(w, h)
	m.catPicker.SetSize(w, h)
}

func (m *Model) setSidebarFocus(focused bool) {
	m.sidebarFocused = focused
	m.sidebar.SetFocused(focused)
}

// syncViews copies the dashboard state into the views and schedules the
// expiry of a new notice.
func (m *Model) syncViews() tea.Cmd {
	if m.dash == nil {
		return nil
	}
	list := m.dash.List()
	cur, pages := list.Page()
	m.mailList.SetLoading(list.Loading())
	cmd := m.mailList.SetPage(maillist.Page{
		Messages:   list.Messages(),
		Total:      list.Total(),
		Classified: list.ClassifiedCount(),
		Pagination: widgetPagination(cur, pages),
	})

	drag := m.dash.Drag()
	if drag.Active() {
		m.mailList.SetMoving(drag.Payload().MailID)
	} else {
		m.mailList.SetMoving(0)
	}
	m.sidebar.SetDrag(drag.Active(), drag.Target())
	m.sidebar.SetCounts(m.dash.Counts())
	m.sidebar.SetFeedback(m.dash.Feedback())
	m.sidebar.SetActive(list.Query().Category)

	if d := m.dash.Detail(); d != m.detail.Mail() {
		m.detail.SetMail(d)
	}
	m.detail.SetLoading(m.dash.DetailLoading())

	// A list view with no user left behind means the dashboard was reset.
	if m.dash.UserID() == 0 && (m.currentView == ViewDetail || m.currentView == ViewNaver || m.currentView == ViewCategoryPicker) {
		m.currentView = ViewList
	}

	var expire tea.Cmd
	if n := m.dash.Notice(); n.Text != "" && !n.CreatedAt.Equal(m.noticeAt) {
		m.noticeAt = n.CreatedAt
		at := n.CreatedAt
		expire = tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{At: at} })
	}
	return tea.Batch(cmd, expire)
}

func (m *Model) quit() tea.Cmd {
	if m.refresher != nil {
		m.refresher.Stop()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}

func (m *Model) refresh() tea.Cmd {
	if m.refresher != nil && m.refresher.Running() {
		// The tick re-reads list and counts and restarts the interval.
		m.refresher.Trigger()
		return nil
	}
	return m.dash.Refresh()
}
