package inbox

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-organizer/internal/model"
)

// DefaultSyncMaxResults caps how many messages one provider sync pulls.
const DefaultSyncMaxResults = 50

// Options tunes a Dashboard.
type Options struct {
	PageSize       int
	SyncMaxResults int

	// Verifier, when set, checks Naver credentials before they are sent.
	Verifier Verifier

	// Now is the clock used to stamp notices.
	Now func() time.Time
}

// Dashboard is the signed-in state of the application: who the user is,
// the current message page, the aggregates shown in the sidebar, the open
// message and every in-flight mutation.
type Dashboard struct {
	backend  Backend
	session  SessionControl
	verifier Verifier
	log      zerolog.Logger
	now      func() time.Time

	syncMaxResults int

	userID     int64
	user       *model.UserInfo
	userSeq    uint64
	categories []string

	list     MessageList
	counts   Counts
	feedback Feedback

	detail        *model.MailDetail
	detailSeq     uint64
	detailLoading bool
	editingMailID int64

	syncing        bool
	classifying    bool
	applyingLabels bool
	dropping       bool

	drag   DragGesture
	naver  NaverLink
	notice model.Notice
}

// New creates a signed-out dashboard.
func New(b Backend, s SessionControl, opts Options, log zerolog.Logger) *Dashboard {
	if opts.SyncMaxResults <= 0 {
		opts.SyncMaxResults = DefaultSyncMaxResults
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dashboard{
		backend:        b,
		session:        s,
		verifier:       opts.Verifier,
		log:            log.With().Str("component", "inbox").Logger(),
		now:            opts.Now,
		syncMaxResults: opts.SyncMaxResults,
		categories:     append([]string(nil), model.DefaultCategories...),
		list:           NewMessageList(opts.PageSize),
	}
}

func (d *Dashboard) UserID() int64                  { return d.userID }
func (d *Dashboard) User() *model.UserInfo          { return d.user }
func (d *Dashboard) Categories() []string           { return d.categories }
func (d *Dashboard) List() *MessageList             { return &d.list }
func (d *Dashboard) Counts() *model.CategoryCounts  { return d.counts.Value() }
func (d *Dashboard) Feedback() *model.FeedbackStats { return d.feedback.Value() }
func (d *Dashboard) Detail() *model.MailDetail      { return d.detail }
func (d *Dashboard) DetailLoading() bool            { return d.detailLoading }
func (d *Dashboard) EditingMailID() int64           { return d.editingMailID }
func (d *Dashboard) Syncing() bool                  { return d.syncing }
func (d *Dashboard) Classifying() bool              { return d.classifying }
func (d *Dashboard) ApplyingLabels() bool           { return d.applyingLabels }
func (d *Dashboard) Dropping() bool                 { return d.dropping }
func (d *Dashboard) Drag() DragGesture              { return d.drag }
func (d *Dashboard) Naver() *NaverLink              { return &d.naver }
func (d *Dashboard) Notice() model.Notice           { return d.notice }

// IsDropTarget reports whether category accepts a dropped message.
func (d *Dashboard) IsDropTarget(category string) bool {
	return d.counts.IsDropTarget(category)
}

// DismissNotice clears the current notice.
func (d *Dashboard) DismissNotice() {
	d.notice = model.Notice{}
}

func (d *Dashboard) notify(level model.NoticeLevel, format string, args ...any) {
	d.notice = model.Notice{
		Level:     level,
		Text:      fmt.Sprintf(format, args...),
		CreatedAt: d.now(),
	}
}

// SetUser switches the dashboard to id. Zero signs out. Any change discards
// all state of the previous user; setting the same id again does nothing.
func (d *Dashboard) SetUser(id int64) tea.Cmd {
	if id == d.userID {
		return nil
	}
	d.reset()
	d.userID = id
	if id == 0 {
		return nil
	}

	d.log.Info().Int64("user_id", id).Msg("loading dashboard")
	return tea.Batch(
		d.loadUser(),
		d.loadCategories(),
		d.list.fetch(d.backend, id),
		d.counts.fetch(d.backend, id, d.list.query.Source),
		d.feedback.fetch(d.backend, id),
	)
}

// reset discards everything tied to the signed-in user. Sequence numbers
// keep counting so responses issued before the reset are ignored.
func (d *Dashboard) reset() {
	d.userID = 0
	d.user = nil
	d.userSeq++
	d.categories = append([]string(nil), model.DefaultCategories...)
	d.list.reset()
	d.counts.reset()
	d.feedback.reset()
	d.detail = nil
	d.detailSeq++
	d.detailLoading = false
	d.editingMailID = 0
	d.syncing = false
	d.classifying = false
	d.applyingLabels = false
	d.dropping = false
	d.drag = DragGesture{}
	d.naver = NaverLink{}
	d.notice = model.Notice{}
}

func (d *Dashboard) loadUser() tea.Cmd {
	if d.userID == 0 {
		return nil
	}
	d.userSeq++
	seq, id, b := d.userSeq, d.userID, d.backend

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		info, err := b.Me(ctx, id)
		return UserLoadedMsg{Seq: seq, UserID: id, Info: info, Err: err}
	}
}

func (d *Dashboard) loadCategories() tea.Cmd {
	b, id := d.backend, d.userID
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		cats, err := b.Categories(ctx)
		return CategoriesLoadedMsg{UserID: id, Categories: cats, Err: err}
	}
}

func (d *Dashboard) loadList() tea.Cmd {
	return d.list.fetch(d.backend, d.userID)
}

func (d *Dashboard) loadCounts() tea.Cmd {
	return d.counts.fetch(d.backend, d.userID, d.list.query.Source)
}

func (d *Dashboard) loadFeedback() tea.Cmd {
	return d.feedback.fetch(d.backend, d.userID)
}

// Refresh re-reads the list and the counts.
func (d *Dashboard) Refresh() tea.Cmd {
	if d.userID == 0 {
		return nil
	}
	return tea.Batch(d.loadList(), d.loadCounts())
}

// SetSource changes the provider filter, returning to the first page.
func (d *Dashboard) SetSource(f model.SourceFilter) tea.Cmd {
	if f == d.list.query.Source {
		return nil
	}
	d.list.setSource(f)
	return tea.Batch(d.loadList(), d.loadCounts())
}

// SetCategory changes the category filter, returning to the first page.
func (d *Dashboard) SetCategory(category string) tea.Cmd {
	if category == d.list.query.Category {
		return nil
	}
	d.list.setCategory(category)
	return d.loadList()
}

// NextPage moves forward one page when the next control is enabled.
func (d *Dashboard) NextPage() tea.Cmd {
	if !d.list.HasNext() {
		return nil
	}
	d.list.setOffset(d.list.query.Offset + d.list.query.Limit)
	return d.loadList()
}

// PrevPage moves back one page, stopping at the first.
func (d *Dashboard) PrevPage() tea.Cmd {
	if !d.list.HasPrev() {
		return nil
	}
	d.list.setOffset(d.list.query.Offset - d.list.query.Limit)
	return d.loadList()
}

// Logout signs out and discards all dashboard state.
func (d *Dashboard) Logout(ctx context.Context) {
	d.session.Clear(ctx)
	d.SetUser(0)
}

// Update applies the result of a command issued by the dashboard and
// returns any follow-up work. Messages it does not own return nil.
func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case UserLoadedMsg:
		return d.handleUser(msg)

	case CategoriesLoadedMsg:
		if msg.UserID == d.userID && msg.Err == nil && len(msg.Categories) > 0 {
			d.categories = msg.Categories
		}
		return nil

	case MessagesLoadedMsg:
		if !d.list.apply(msg) {
			d.log.Debug().Uint64("seq", msg.Seq).Msg("discarded stale message page")
		} else if msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("loading messages")
		}
		return nil

	case CountsLoadedMsg:
		if d.counts.apply(msg) && msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("loading category counts")
		}
		return nil

	case FeedbackLoadedMsg:
		if d.feedback.apply(msg) && msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("loading feedback stats")
		}
		return nil

	case DetailLoadedMsg:
		d.handleDetail(msg)
		return nil

	case SyncDoneMsg:
		return d.handleSync(msg)

	case ClassifyDoneMsg:
		return d.handleClassify(msg)

	case LabelsAppliedMsg:
		return d.handleLabels(msg)

	case CategoryUpdatedMsg:
		return d.handleCategoryUpdated(msg)

	case DropDoneMsg:
		return d.handleDrop(msg)

	case NaverLinkedMsg:
		return d.handleNaverLinked(msg)
	}
	return nil
}

func (d *Dashboard) handleUser(msg UserLoadedMsg) tea.Cmd {
	if msg.Seq != d.userSeq || msg.UserID != d.userID {
		return nil
	}
	if msg.Err != nil {
		// An id the backend no longer recognizes is dropped for good.
		d.log.Warn().Err(msg.Err).Int64("user_id", msg.UserID).Msg("who-am-I failed, signing out")
		ctx, cancel := requestContext()
		defer cancel()
		d.session.Invalidate(ctx, msg.UserID)
		return d.SetUser(0)
	}
	d.user = msg.Info
	return nil
}
