package inbox

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/model"
)

func TestDragGesture(t *testing.T) {
	var g DragGesture
	_, _, ok := g.release()
	assert.False(t, ok, "nothing picked up")

	g.pick(DragPayload{MailID: 3})
	assert.True(t, g.Active())
	_, _, ok = g.release()
	assert.False(t, ok, "no target highlighted")
	assert.False(t, g.Active(), "release always ends the gesture")

	g.pick(DragPayload{MailID: 3, ClassificationID: 9})
	g.hover("업무")
	g.hover("개인")
	assert.Equal(t, "개인", g.Target(), "only one target is active")
	p, target, ok := g.release()
	require.True(t, ok)
	assert.Equal(t, DragPayload{MailID: 3, ClassificationID: 9}, p)
	assert.Equal(t, "개인", target)
}

func TestPayloadFor(t *testing.T) {
	assert.Equal(t, DragPayload{MailID: 10}, PayloadFor(model.MailMessage{ID: 10}))
	assert.Equal(t, DragPayload{MailID: 11, ClassificationID: 5},
		PayloadFor(model.MailMessage{ID: 11, Classification: classified(5, "업무", 0.5)}))
}

func TestDashboard_HoverOnlyListedCategories(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)
	require.True(t, d.PickUp(10))

	d.Hover("")
	assert.Empty(t, d.Drag().Target(), "the all row is not a drop target")
	d.Hover(model.CategoryUnclassified)
	assert.Empty(t, d.Drag().Target())
	d.Hover("스팸")
	assert.Empty(t, d.Drag().Target())
	d.Hover("금융")
	assert.Equal(t, "금융", d.Drag().Target())

	d.CancelDrag()
	assert.False(t, d.Drag().Active())
	assert.Nil(t, d.Drop())
}

func TestDashboard_DropClassifiedMail(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("UpdateClassification", mock.Anything, testUser, int64(5), "금융").Return(nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{TotalFeedbacks: 1}, nil).Once()

	require.True(t, d.PickUp(11))
	d.Hover("금융")
	cmd := d.Drop()
	require.NotNil(t, cmd)
	assert.True(t, d.Dropping())
	run(d, cmd)

	assert.False(t, d.Dropping())
	m, _ := d.List().Find(11)
	info, ok := m.Classification.Info()
	require.True(t, ok)
	assert.Equal(t, "금융", info.Category)
	assert.Equal(t, "금융", *info.UserFeedback)
	b.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything)
	b.AssertExpectations(t)
}

func TestDashboard_DropUnclassifiedMail(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	refetched := &model.MailListResponse{
		Total: 45,
		Messages: []model.MailMessage{
			{ID: 10, Source: model.SourceGmail, Classification: classified(99, "개인", 0.8)},
			{ID: 11, Source: model.SourceNaver, Classification: classified(5, "업무", 0.91)},
		},
	}
	mock.InOrder(
		b.On("Classify", mock.Anything, testUser, api.ClassifyRequest{MailIDs: []int64{10}}).
			Return(&model.ClassifyResponse{Classified: 1}, nil).Once(),
		b.On("ListMessages", mock.Anything, firstPage(model.FilterAll)).Return(refetched, nil).Once(),
		b.On("UpdateClassification", mock.Anything, testUser, int64(99), "금융").Return(nil).Once(),
	)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{}, nil).Once()

	require.True(t, d.PickUp(10))
	d.Hover("금융")
	run(d, d.Drop())

	// The refetched page carries the AI category; the correction wins.
	m, ok := d.List().Find(10)
	require.True(t, ok)
	info, ok := m.Classification.Info()
	require.True(t, ok)
	assert.Equal(t, "금융", info.Category)
	assert.Equal(t, int64(99), info.ClassificationID)
	assert.InDelta(t, 0.8, *info.Confidence, 1e-9)
	b.AssertExpectations(t)
}

func TestDashboard_DropUnclassifiedMailMissingFromPage(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	// Under the unclassified filter the freshly classified mail drops out.
	b.On("ListMessages", mock.Anything, mock.Anything).Return(testPage(), nil).Once()
	run(d, d.SetCategory(model.CategoryUnclassified))

	refetched := &model.MailListResponse{Total: 44}
	b.On("Classify", mock.Anything, testUser, api.ClassifyRequest{MailIDs: []int64{10}}).
		Return(&model.ClassifyResponse{Classified: 1}, nil).Once()
	b.On("ListMessages", mock.Anything, mock.Anything).Return(refetched, nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()

	require.True(t, d.PickUp(10))
	d.Hover("업무")
	run(d, d.Drop())

	assert.Empty(t, d.List().Messages())
	assert.Equal(t, 44, d.List().Total())
	assert.Empty(t, d.Notice().Text)
	b.AssertNotCalled(t, "UpdateClassification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	b.AssertExpectations(t)
}

func TestDashboard_DropFailureReloads(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("Classify", mock.Anything, testUser, mock.Anything).Return(nil, errors.New("llm down")).Once()
	b.On("ListMessages", mock.Anything, firstPage(model.FilterAll)).Return(testPage(), nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()

	require.True(t, d.PickUp(10))
	d.Hover("업무")
	run(d, d.Drop())

	assert.False(t, d.Dropping())
	assert.Equal(t, model.NoticeError, d.Notice().Level)
	assert.Equal(t, "분류 실패: classifying: llm down", d.Notice().Text)
	b.AssertExpectations(t)
}

func TestDropSaga_StopsAtFailedStep(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *MockBackend)
		step  DropStep
	}{
		{
			name: "classify",
			setup: func(b *MockBackend) {
				b.On("Classify", mock.Anything, testUser, mock.Anything).Return(nil, errors.New("x"))
			},
			step: StepClassifying,
		},
		{
			name: "refetch",
			setup: func(b *MockBackend) {
				b.On("Classify", mock.Anything, testUser, mock.Anything).Return(&model.ClassifyResponse{}, nil)
				b.On("ListMessages", mock.Anything, mock.Anything).Return(nil, errors.New("x"))
			},
			step: StepRefetching,
		},
		{
			name: "correct",
			setup: func(b *MockBackend) {
				b.On("Classify", mock.Anything, testUser, mock.Anything).Return(&model.ClassifyResponse{}, nil)
				b.On("ListMessages", mock.Anything, mock.Anything).Return(&model.MailListResponse{
					Messages: []model.MailMessage{{ID: 10, Classification: classified(99, "개인", 0.8)}},
				}, nil)
				b.On("UpdateClassification", mock.Anything, testUser, int64(99), "업무").Return(errors.New("x"))
			},
			step: StepCorrecting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &MockBackend{}
			tt.setup(b)
			saga := NewDropSaga(b, testUser, Query{Limit: 20}, DragPayload{MailID: 10}, "업무", zerolog.Nop())

			res := saga.Run(context.Background())

			var dropErr *DropError
			require.ErrorAs(t, res.Err, &dropErr)
			assert.Equal(t, tt.step, dropErr.Step)
			assert.Equal(t, tt.step, saga.Step())
			assert.False(t, res.Corrected)
		})
	}
}

func TestDashboard_DropKeepsNewerFilter(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	gmailPage := &model.MailListResponse{
		Total:    1,
		Limit:    DefaultPageSize,
		Messages: []model.MailMessage{{ID: 99, Source: model.SourceGmail, Classification: model.Unclassified()}},
	}
	refetched := &model.MailListResponse{
		Total: 45,
		Messages: []model.MailMessage{
			{ID: 10, Source: model.SourceGmail, Classification: classified(99, "개인", 0.8)},
			{ID: 11, Source: model.SourceNaver, Classification: classified(5, "업무", 0.91)},
		},
	}
	b.On("ListMessages", mock.Anything, firstPage(model.FilterGmail)).Return(gmailPage, nil).Twice()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterGmail).Return(testCounts(), nil).Twice()
	b.On("Classify", mock.Anything, testUser, api.ClassifyRequest{MailIDs: []int64{10}}).
		Return(&model.ClassifyResponse{Classified: 1}, nil).Once()
	b.On("ListMessages", mock.Anything, firstPage(model.FilterAll)).Return(refetched, nil).Once()
	b.On("UpdateClassification", mock.Anything, testUser, int64(99), "금융").Return(nil).Once()
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{}, nil).Once()

	require.True(t, d.PickUp(10))
	d.Hover("금융")
	drop := d.Drop()
	require.NotNil(t, drop)

	run(d, d.SetSource(model.FilterGmail))
	require.Len(t, d.List().Messages(), 1)

	run(d, drop)

	assert.Equal(t, model.FilterGmail, d.List().Query().Source)
	ids := make([]int64, 0, len(d.List().Messages()))
	for _, m := range d.List().Messages() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{99}, ids, "the page refetched for the old filter is not shown")
	b.AssertExpectations(t)
}
