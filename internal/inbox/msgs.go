package inbox

import "github.com/nhle/mail-organizer/internal/model"

// UserLoadedMsg carries the who-am-I response for UserID.
type UserLoadedMsg struct {
	Seq    uint64
	UserID int64
	Info   *model.UserInfo
	Err    error
}

// CategoriesLoadedMsg carries the classification vocabulary.
type CategoriesLoadedMsg struct {
	UserID     int64
	Categories []string
	Err        error
}

// MessagesLoadedMsg carries one page of the message list.
type MessagesLoadedMsg struct {
	Seq      uint64
	Response *model.MailListResponse
	Err      error
}

// CountsLoadedMsg carries the per-category totals.
type CountsLoadedMsg struct {
	Seq    uint64
	Counts *model.CategoryCounts
	Err    error
}

// FeedbackLoadedMsg carries the correction summary.
type FeedbackLoadedMsg struct {
	Seq   uint64
	Stats *model.FeedbackStats
	Err   error
}

// DetailLoadedMsg carries the full message opened from the list.
type DetailLoadedMsg struct {
	Seq    uint64
	Detail *model.MailDetail
	Err    error
}

// SyncDoneMsg reports the outcome of a provider sync.
type SyncDoneMsg struct {
	UserID int64
	Synced int
	Err    error
}

// ClassifyDoneMsg reports the outcome of an AI classification run.
type ClassifyDoneMsg struct {
	UserID     int64
	Classified int
	Err        error
}

// LabelsAppliedMsg reports the outcome of mirroring categories as Gmail
// labels.
type LabelsAppliedMsg struct {
	UserID  int64
	Applied int
	Err     error
}

// CategoryUpdatedMsg reports the outcome of a manual correction.
type CategoryUpdatedMsg struct {
	UserID   int64
	MailID   int64
	Category string
	Err      error
}

// DropDoneMsg reports the outcome of a drop saga.
type DropDoneMsg struct {
	UserID int64
	Result DropResult
}

// NaverLinkedMsg reports the outcome of linking a Naver mailbox.
type NaverLinkedMsg struct {
	UserID int64
	Err    error
}
