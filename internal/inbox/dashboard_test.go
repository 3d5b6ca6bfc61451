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

func TestDashboard_SignInLoadsEverything(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	require.NotNil(t, d.User())
	assert.Equal(t, "kim@example.com", d.User().Email)
	assert.Equal(t, []string{"업무", "개인", "금융"}, d.Categories())
	assert.Len(t, d.List().Messages(), 2)
	assert.Equal(t, 45, d.List().Total())
	assert.False(t, d.List().Loading())
	assert.Equal(t, 1, d.List().ClassifiedCount())
	require.NotNil(t, d.Counts())
	assert.NotNil(t, d.Feedback())
	b.AssertExpectations(t)
}

func TestDashboard_SetUserSameIDIsNoop(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	assert.Nil(t, d.SetUser(testUser))
}

func TestDashboard_CategoriesFallback(t *testing.T) {
	d, b, _ := newDashboard(t)
	b.On("Me", mock.Anything, testUser).Return(&model.UserInfo{UserID: testUser}, nil)
	b.On("Categories", mock.Anything).Return(nil, errors.New("boom"))
	b.On("ListMessages", mock.Anything, firstPage(model.FilterAll)).Return(testPage(), nil)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(nil, errors.New("boom"))
	b.On("FeedbackStats", mock.Anything, testUser).Return(nil, errors.New("boom"))

	run(d, d.SetUser(testUser))

	assert.Equal(t, model.DefaultCategories, d.Categories())
	assert.Nil(t, d.Counts(), "failed counts stay unknown")
	assert.Nil(t, d.Feedback())
}

func TestDashboard_WhoAmIFailureSignsOut(t *testing.T) {
	d, b, s := newDashboard(t)
	b.On("Me", mock.Anything, testUser).Return(nil, &api.APIError{Status: 404, Detail: "User not found"})
	b.On("Categories", mock.Anything).Return([]string{"업무"}, nil)
	b.On("ListMessages", mock.Anything, mock.Anything).Return(testPage(), nil)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil)
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{}, nil)

	run(d, d.SetUser(testUser))

	assert.Equal(t, []int64{testUser}, s.invalidated)
	assert.Zero(t, d.UserID())
	assert.Nil(t, d.User())
	assert.Empty(t, d.List().Messages(), "responses for the dropped user are discarded")
	assert.Nil(t, d.Counts())
}

func TestDashboard_StaleListResponseIsDiscarded(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	older := d.SetCategory("업무")
	newer := d.SetCategory("개인")

	b.On("ListMessages", mock.Anything, mock.MatchedBy(func(q api.ListQuery) bool { return q.Category == "업무" })).
		Return(&model.MailListResponse{Total: 3, Messages: []model.MailMessage{{ID: 1}}}, nil)
	b.On("ListMessages", mock.Anything, mock.MatchedBy(func(q api.ListQuery) bool { return q.Category == "개인" })).
		Return(&model.MailListResponse{Total: 1, Messages: []model.MailMessage{{ID: 2}}}, nil)

	// The newer response lands first, then the older one.
	d.Update(newer())
	d.Update(older())

	require.Len(t, d.List().Messages(), 1)
	assert.Equal(t, int64(2), d.List().Messages()[0].ID)
	assert.Equal(t, 1, d.List().Total())
}

func TestDashboard_ListFailureEmptiesPage(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("ListMessages", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	run(d, d.SetCategory(model.CategoryUnclassified))

	assert.Empty(t, d.List().Messages())
	assert.False(t, d.List().Loading())
}

func TestDashboard_Pagination(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	assert.Nil(t, d.PrevPage(), "prev is disabled on the first page")

	b.On("ListMessages", mock.Anything, mock.Anything).Return(testPage(), nil)
	run(d, d.NextPage())
	run(d, d.NextPage())
	assert.Equal(t, 40, d.List().Query().Offset)

	cur, pages := d.List().Page()
	assert.Equal(t, 3, cur)
	assert.Equal(t, 3, pages)
	assert.Nil(t, d.NextPage(), "next is disabled on the last page")

	run(d, d.PrevPage())
	assert.Equal(t, 20, d.List().Query().Offset)
}

func TestDashboard_SourceChangeResetsOffsetAndRefetchesCounts(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("ListMessages", mock.Anything, mock.Anything).Return(testPage(), nil)
	run(d, d.NextPage())

	b.On("CategoryCounts", mock.Anything, testUser, model.FilterNaver).Return(testCounts(), nil).Once()
	run(d, d.SetSource(model.FilterNaver))

	assert.Equal(t, 0, d.List().Query().Offset)
	assert.Equal(t, model.FilterNaver, d.List().Query().Source)
	b.AssertCalled(t, "ListMessages", mock.Anything, firstPage(model.FilterNaver))
}

func TestDashboard_SyncAllConnectedProviders(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("Sync", mock.Anything, testUser, model.SourceGmail, DefaultSyncMaxResults).Return(3, nil).Once()
	b.On("Sync", mock.Anything, testUser, model.SourceNaver, DefaultSyncMaxResults).Return(2, nil).Once()
	b.On("ListMessages", mock.Anything, firstPage(model.FilterAll)).Return(testPage(), nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()

	cmd := d.Sync()
	require.NotNil(t, cmd)
	assert.True(t, d.Syncing())
	assert.Nil(t, d.Sync(), "a second sync is blocked while one runs")

	run(d, cmd)

	assert.False(t, d.Syncing())
	assert.Equal(t, "5개의 새 메일을 동기화했습니다.", d.Notice().Text)
	b.AssertExpectations(t)
}

func TestDashboard_SyncFailure(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("Sync", mock.Anything, testUser, model.SourceGmail, DefaultSyncMaxResults).Return(0, errors.New("quota"))
	b.On("Sync", mock.Anything, testUser, model.SourceNaver, DefaultSyncMaxResults).Return(1, nil).Maybe()

	run(d, d.Sync())

	assert.False(t, d.Syncing())
	assert.Equal(t, model.NoticeError, d.Notice().Level)
	assert.Contains(t, d.Notice().Text, "동기화 실패")
}

func TestDashboard_SyncWithoutProviders(t *testing.T) {
	d, b, _ := newDashboard(t)
	b.On("Me", mock.Anything, testUser).Return(&model.UserInfo{UserID: testUser}, nil)
	b.On("Categories", mock.Anything).Return([]string{}, nil)
	b.On("ListMessages", mock.Anything, mock.Anything).Return(testPage(), nil)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil)
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{}, nil)
	run(d, d.SetUser(testUser))

	assert.Nil(t, d.Sync())
	assert.False(t, d.Syncing())
	b.AssertNotCalled(t, "Sync", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_ClassifyUsesSourceFilter(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("ListMessages", mock.Anything, mock.Anything).Return(testPage(), nil)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterGmail).Return(testCounts(), nil)
	run(d, d.SetSource(model.FilterGmail))

	b.On("Classify", mock.Anything, testUser, api.ClassifyRequest{Source: model.FilterGmail}).
		Return(&model.ClassifyResponse{Classified: 7}, nil).Once()

	cmd := d.Classify()
	assert.True(t, d.Classifying())
	assert.Nil(t, d.Classify())
	run(d, cmd)

	assert.False(t, d.Classifying())
	assert.Equal(t, "7개의 메일이 분류되었습니다.", d.Notice().Text)
	b.AssertExpectations(t)
}

func TestDashboard_ApplyLabels(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	assert.False(t, d.CanApplyLabels())
	assert.Nil(t, d.ApplyLabels(), "labels are a Gmail-only control")

	b.On("ListMessages", mock.Anything, firstPage(model.FilterGmail)).Return(testPage(), nil)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterGmail).Return(testCounts(), nil)
	run(d, d.SetSource(model.FilterGmail))

	b.On("ApplyLabels", mock.Anything, testUser, []int64{11}).Return(1, nil).Once()
	run(d, d.ApplyLabels())

	assert.False(t, d.ApplyingLabels())
	assert.Equal(t, "1개의 Gmail 라벨이 적용되었습니다.", d.Notice().Text)
	b.AssertExpectations(t)
}

func TestDashboard_ApplyLabelsWithoutClassifiedMail(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	unclassified := &model.MailListResponse{Total: 1, Messages: []model.MailMessage{{ID: 10}}}
	b.On("ListMessages", mock.Anything, firstPage(model.FilterGmail)).Return(unclassified, nil)
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterGmail).Return(testCounts(), nil)
	run(d, d.SetSource(model.FilterGmail))

	assert.Nil(t, d.ApplyLabels())
	assert.False(t, d.ApplyingLabels())
	assert.Equal(t, "분류된 메일이 없습니다. 먼저 AI 분류를 실행하세요.", d.Notice().Text)
	b.AssertNotCalled(t, "ApplyLabels", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_UpdateCategoryPatchesListAndDetail(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("MessageDetail", mock.Anything, testUser, model.SourceNaver, int64(11)).
		Return(&model.MailDetail{ID: 11, Source: model.SourceNaver, Classification: classified(5, "업무", 0.91)}, nil)
	run(d, d.SelectMail(11))
	require.NotNil(t, d.Detail())

	d.StartEdit(11)
	b.On("UpdateClassification", mock.Anything, testUser, int64(5), "개인").Return(nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()
	b.On("FeedbackStats", mock.Anything, testUser).Return(&model.FeedbackStats{TotalFeedbacks: 1}, nil).Once()

	run(d, d.UpdateCategory(5, "개인", 11))

	m, ok := d.List().Find(11)
	require.True(t, ok)
	info, ok := m.Classification.Info()
	require.True(t, ok)
	assert.Equal(t, "개인", info.Category)
	require.NotNil(t, info.UserFeedback)
	assert.Equal(t, "개인", *info.UserFeedback)
	assert.InDelta(t, 0.91, *info.Confidence, 1e-9, "confidence is left as is")

	detailInfo, ok := d.Detail().Classification.Info()
	require.True(t, ok)
	assert.Equal(t, "개인", detailInfo.Category)

	assert.Zero(t, d.EditingMailID())
	assert.Equal(t, 1, d.Feedback().TotalFeedbacks)
	b.AssertExpectations(t)
}

func TestDashboard_UpdateCategoryFailureKeepsState(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)
	d.StartEdit(11)

	b.On("UpdateClassification", mock.Anything, testUser, int64(5), "개인").Return(errors.New("conflict"))
	run(d, d.UpdateCategory(5, "개인", 11))

	m, _ := d.List().Find(11)
	info, _ := m.Classification.Info()
	assert.Equal(t, "업무", info.Category)
	assert.Nil(t, info.UserFeedback)
	assert.Equal(t, int64(11), d.EditingMailID())
	assert.Equal(t, "수정 실패: conflict", d.Notice().Text)
}

func TestDashboard_SelectMailFailureKeepsList(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("MessageDetail", mock.Anything, testUser, model.SourceGmail, int64(10)).Return(nil, errors.New("gone"))
	run(d, d.SelectMail(10))

	assert.Nil(t, d.Detail())
	assert.False(t, d.DetailLoading())
	assert.Len(t, d.List().Messages(), 2)
	assert.Equal(t, "메일을 불러올 수 없습니다.", d.Notice().Text)
}

func TestDashboard_CloseDetailIgnoresLateFetch(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)

	b.On("MessageDetail", mock.Anything, testUser, model.SourceGmail, int64(10)).
		Return(&model.MailDetail{ID: 10, Source: model.SourceGmail}, nil)

	cmd := d.SelectMail(10)
	assert.True(t, d.DetailLoading())
	d.CloseDetail()

	d.Update(cmd())
	assert.Nil(t, d.Detail())
}

func TestDashboard_LogoutDiscardsState(t *testing.T) {
	d, b, s := newDashboard(t)
	signIn(t, d, b)

	b.On("Sync", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(4, nil)
	inflight := d.Sync()

	d.Logout(context.Background())

	assert.Equal(t, 1, s.clears)
	assert.Zero(t, d.UserID())
	assert.Nil(t, d.User())
	assert.Empty(t, d.List().Messages())
	assert.Nil(t, d.Counts())
	assert.Nil(t, d.Feedback())
	assert.False(t, d.Syncing())

	// A sync issued before logout lands without effect.
	assert.Nil(t, d.Update(inflight()))
	assert.Empty(t, d.Notice().Text)
}

func TestDashboard_ConnectNaver(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)
	d.OpenNaver()

	assert.Nil(t, d.ConnectNaver("me@naver.com", ""), "both fields are required")

	b.On("ConnectNaver", mock.Anything, testUser, "me@naver.com", "app-pw").Return(nil).Once()
	b.On("Me", mock.Anything, testUser).Return(&model.UserInfo{UserID: testUser, NaverConnected: true}, nil).Once()
	b.On("CategoryCounts", mock.Anything, testUser, model.FilterAll).Return(testCounts(), nil).Once()

	cmd := d.ConnectNaver("me@naver.com", "app-pw")
	require.NotNil(t, cmd)
	assert.True(t, d.Naver().Submitting())
	assert.False(t, d.Naver().CanSubmit())
	run(d, cmd)

	assert.False(t, d.Naver().IsOpen())
	assert.Empty(t, d.Naver().Email())
	assert.Empty(t, d.Naver().Password())
	assert.True(t, d.User().NaverConnected)
	assert.Equal(t, "네이버 메일이 연결되었습니다.", d.Notice().Text)
	b.AssertExpectations(t)
}

func TestDashboard_ConnectNaverFailureKeepsForm(t *testing.T) {
	d, b, _ := newDashboard(t)
	signIn(t, d, b)
	d.OpenNaver()

	b.On("ConnectNaver", mock.Anything, testUser, "me@naver.com", "wrong").
		Return(&api.APIError{Status: 400, Detail: "IMAP login failed"})
	run(d, d.ConnectNaver("me@naver.com", "wrong"))

	assert.True(t, d.Naver().IsOpen())
	assert.Equal(t, "me@naver.com", d.Naver().Email())
	assert.False(t, d.Naver().Submitting())
	assert.Contains(t, d.Notice().Text, "네이버 연결 실패: ")
}

func TestDashboard_ConnectNaverVerifierRejects(t *testing.T) {
	b := &MockBackend{}
	v := &MockVerifier{}
	d := New(b, &fakeSession{}, Options{Verifier: v}, zerolog.Nop())
	signIn(t, d, b)

	v.On("Verify", mock.Anything, "me@naver.com", "pw").Return(errors.New("AUTHENTICATIONFAILED"))
	run(d, d.ConnectNaver("me@naver.com", "pw"))

	assert.Contains(t, d.Notice().Text, "AUTHENTICATIONFAILED")
	b.AssertNotCalled(t, "ConnectNaver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	v.AssertExpectations(t)
}
