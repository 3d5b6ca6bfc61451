// Package inbox holds the dashboard state of the mail organizer: the
// message page, the per-category aggregates, the open message and the
// mutations that move mail between categories.
//
// All state is owned by the Bubble Tea update goroutine. Network calls run
// inside tea.Cmd closures that capture their inputs by value and report
// back through the typed messages in msgs.go.
package inbox

import (
	"context"
	"time"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/model"
)

// Backend is the part of the API the dashboard drives. *api.Client
// satisfies it.
type Backend interface {
	Me(ctx context.Context, userID int64) (*model.UserInfo, error)
	Categories(ctx context.Context) ([]string, error)
	ListMessages(ctx context.Context, q api.ListQuery) (*model.MailListResponse, error)
	MessageDetail(ctx context.Context, userID int64, source model.Source, mailID int64) (*model.MailDetail, error)
	Sync(ctx context.Context, userID int64, source model.Source, maxResults int) (int, error)
	Classify(ctx context.Context, userID int64, req api.ClassifyRequest) (*model.ClassifyResponse, error)
	ApplyLabels(ctx context.Context, userID int64, mailIDs []int64) (int, error)
	UpdateClassification(ctx context.Context, userID, classificationID int64, newCategory string) error
	CategoryCounts(ctx context.Context, userID int64, source model.SourceFilter) (*model.CategoryCounts, error)
	FeedbackStats(ctx context.Context, userID int64) (*model.FeedbackStats, error)
	ConnectNaver(ctx context.Context, userID int64, email, appPassword string) error
}

// SessionControl is the slice of the session the dashboard needs to sign a
// user out.
type SessionControl interface {
	Clear(ctx context.Context)
	Invalidate(ctx context.Context, id int64) bool
}

// Verifier checks mailbox credentials before they are sent to the backend.
type Verifier interface {
	Verify(ctx context.Context, username, password string) error
}

// requestTimeout bounds every backend call issued from a command.
const requestTimeout = 30 * time.Second

// syncTimeout is longer since providers may page through many messages.
const syncTimeout = 2 * time.Minute

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
