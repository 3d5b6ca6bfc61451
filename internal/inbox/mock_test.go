package inbox

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/model"
)

// MockBackend implements Backend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Me(ctx context.Context, userID int64) (*model.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserInfo), args.Error(1)
}

func (m *MockBackend) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackend) ListMessages(ctx context.Context, q api.ListQuery) (*model.MailListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MailListResponse), args.Error(1)
}

func (m *MockBackend) MessageDetail(ctx context.Context, userID int64, source model.Source, mailID int64) (*model.MailDetail, error) {
	args := m.Called(ctx, userID, source, mailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MailDetail), args.Error(1)
}

func (m *MockBackend) Sync(ctx context.Context, userID int64, source model.Source, maxResults int) (int, error) {
	args := m.Called(ctx, userID, source, maxResults)
	return args.Int(0), args.Error(1)
}

func (m *MockBackend) Classify(ctx context.Context, userID int64, req api.ClassifyRequest) (*model.ClassifyResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClassifyResponse), args.Error(1)
}

func (m *MockBackend) ApplyLabels(ctx context.Context, userID int64, mailIDs []int64) (int, error) {
	args := m.Called(ctx, userID, mailIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockBackend) UpdateClassification(ctx context.Context, userID, classificationID int64, newCategory string) error {
	args := m.Called(ctx, userID, classificationID, newCategory)
	return args.Error(0)
}

func (m *MockBackend) CategoryCounts(ctx context.Context, userID int64, source model.SourceFilter) (*model.CategoryCounts, error) {
	args := m.Called(ctx, userID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CategoryCounts), args.Error(1)
}

func (m *MockBackend) FeedbackStats(ctx context.Context, userID int64) (*model.FeedbackStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackStats), args.Error(1)
}

func (m *MockBackend) ConnectNaver(ctx context.Context, userID int64, email, appPassword string) error {
	args := m.Called(ctx, userID, email, appPassword)
	return args.Error(0)
}

// MockVerifier implements Verifier for testing
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

type fakeSession struct {
	clears      int
	invalidated []int64
}

func (f *fakeSession) Clear(context.Context) { f.clears++ }

func (f *fakeSession) Invalidate(_ context.Context, id int64) bool {
	f.invalidated = append(f.invalidated, id)
	return true
}

// run executes cmd and everything it leads to, feeding each message back
// into d, until no work is left.
func run(d *Dashboard, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, d.Update(msg))
		}
	}
}

const testUser int64 = 1

func confidence(v float64) *float64 { return &v }

func classified(cid int64, category string, conf float64) model.Classification {
	return model.Classified(model.ClassificationInfo{
		ClassificationID: cid,
		Category:         category,
		Confidence:       confidence(conf),
	})
}

func testPage() *model.MailListResponse {
	return &model.MailListResponse{
		Total: 45,
		Limit: DefaultPageSize,
		Messages: []model.MailMessage{
			{ID: 10, Source: model.SourceGmail, Subject: "invoice", Classification: model.Unclassified()},
			{ID: 11, Source: model.SourceNaver, Subject: "meeting", Classification: classified(5, "업무", 0.91)},
		},
	}
}

func testCounts() *model.CategoryCounts {
	return &model.CategoryCounts{
		Total:        45,
		Unclassified: 40,
		Categories: []model.CategoryCount{
			{Name: "업무", Count: 3},
			{Name: "개인", Count: 1},
			{Name: "금융", Count: 1},
		},
	}
}

func firstPage(source model.SourceFilter) api.ListQuery {
	return api.ListQuery{UserID: testUser, Limit: DefaultPageSize, Source: source}
}

func newDashboard(t *testing.T) (*Dashboard, *MockBackend, *fakeSession) {
	t.Helper()
	b := &MockBackend{}
	s := &fakeSession{}
	d := New(b, s, Options{}, zerolog.Nop())
	return d, b, s
}

// signIn loads the dashboard for testUser with both providers linked.
func signIn(t *testing.T, d *Dashboard, b *MockBackend) {
	t.Helper()
	b.On("Me", mock.Anything, testUser).
		Return(&model.UserInfo{UserID: testUser, Email: "kim@example.com", GoogleConnected: true, NaverConnected: true}, nil).Once()
	b.On("Categories", mock.Anything).Return([]string{"업무", "개인", "금융"}, nil).Once()
	b.On("ListMessages", mock.Anything, firstPage(model.FilterAll)).Return(testPage(), nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{}, nil).Once()

	run(d, d.SetUser(testUser))
}
