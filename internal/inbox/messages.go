package inbox

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/model"
)

// DefaultPageSize is the page length used when none is configured.
const DefaultPageSize = 20

// Query selects the page shown in the message list. Category "" means no
// category restriction; model.CategoryUnclassified selects mail without a
// classification.
type Query struct {
	Source   model.SourceFilter
	Category string
	Offset   int
	Limit    int
}

func (q Query) listQuery(userID int64) api.ListQuery {
	return api.ListQuery{
		UserID:   userID,
		Offset:   q.Offset,
		Limit:    q.Limit,
		Source:   q.Source,
		Category: q.Category,
	}
}

// MessageList is the current page of message summaries.
type MessageList struct {
	query    Query
	messages []model.MailMessage
	total    int
	loading  bool
	seq      uint64
}

// NewMessageList returns an empty list with the given page size.
func NewMessageList(limit int) MessageList {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return MessageList{query: Query{Source: model.FilterAll, Limit: limit}}
}

func (l *MessageList) Query() Query                  { return l.query }
func (l *MessageList) Messages() []model.MailMessage { return l.messages }
func (l *MessageList) Total() int                    { return l.total }
func (l *MessageList) Loading() bool                 { return l.loading }

// Find returns the loaded message with the given id.
func (l *MessageList) Find(id int64) (model.MailMessage, bool) {
	for _, m := range l.messages {
		if m.ID == id {
			return m, true
		}
	}
	return model.MailMessage{}, false
}

// ClassifiedIDs returns the ids of loaded messages that carry a
// classification, in list order.
func (l *MessageList) ClassifiedIDs() []int64 {
	var ids []int64
	for _, m := range l.messages {
		if m.Classification.IsClassified() {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// ClassifiedCount is the number of loaded messages with a classification.
func (l *MessageList) ClassifiedCount() int {
	return len(l.ClassifiedIDs())
}

// Page returns the 1-based current page and the page count.
func (l *MessageList) Page() (current, pages int) {
	limit := l.query.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return l.query.Offset/limit + 1, (l.total + limit - 1) / limit
}

// HasNext reports whether the next page control is enabled.
func (l *MessageList) HasNext() bool {
	cur, pages := l.Page()
	return cur < pages
}

// HasPrev reports whether the previous page control is enabled.
func (l *MessageList) HasPrev() bool {
	return l.query.Offset > 0
}

func (l *MessageList) setSource(f model.SourceFilter) {
	l.query.Source = f
	l.query.Offset = 0
}

func (l *MessageList) setCategory(category string) {
	l.query.Category = category
	l.query.Offset = 0
}

// setOffset clamps at zero. There is no upper clamp; the next control is
// disabled on the last page instead.
func (l *MessageList) setOffset(offset int) {
	if offset < 0 {
		offset = 0
	}
	l.query.Offset = offset
}

// fetch issues a request for the current query. Only the response to the
// most recent fetch is applied.
func (l *MessageList) fetch(b Backend, userID int64) tea.Cmd {
	if userID == 0 {
		return nil
	}
	l.seq++
	l.loading = true
	seq, lq := l.seq, l.query.listQuery(userID)

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		resp, err := b.ListMessages(ctx, lq)
		return MessagesLoadedMsg{Seq: seq, Response: resp, Err: err}
	}
}

// apply stores a fetch result and reports whether it was current.
// A failed read empties the page and keeps the last known total.
func (l *MessageList) apply(msg MessagesLoadedMsg) bool {
	if msg.Seq != l.seq {
		return false
	}
	l.loading = false
	if msg.Err != nil || msg.Response == nil {
		l.messages = nil
		return true
	}
	l.messages = msg.Response.Messages
	l.total = msg.Response.Total
	return true
}

// replace installs a page obtained outside fetch and supersedes any fetch
// still in flight.
func (l *MessageList) replace(page *model.MailListResponse) {
	l.seq++
	l.loading = false
	l.messages = page.Messages
	l.total = page.Total
}

// patch records a correction on the loaded copy of mailID. Entries are
// replaced, never mutated in place, so earlier snapshots stay intact.
func (l *MessageList) patch(mailID int64, category string) {
	next := make([]model.MailMessage, len(l.messages))
	for i, m := range l.messages {
		if m.ID == mailID {
			m.Classification = m.Classification.Corrected(category)
		}
		next[i] = m
	}
	l.messages = next
}

// reset drops the page and supersedes in-flight fetches.
func (l *MessageList) reset() {
	l.seq++
	l.messages = nil
	l.total = 0
	l.loading = false
	l.query = Query{Source: model.FilterAll, Limit: l.query.Limit}
}
