package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-organizer/internal/model"
)

func TestMessageList_OffsetClampsAtZero(t *testing.T) {
	l := NewMessageList(0)
	assert.Equal(t, DefaultPageSize, l.Query().Limit)

	l.setOffset(-20)
	assert.Equal(t, 0, l.Query().Offset)

	l.setOffset(400)
	assert.Equal(t, 400, l.Query().Offset, "no upper clamp")
}

func TestMessageList_FetchWithoutUser(t *testing.T) {
	l := NewMessageList(10)
	assert.Nil(t, l.fetch(&MockBackend{}, 0))
	assert.False(t, l.Loading())
}

func TestAggregates_FetchWithoutUser(t *testing.T) {
	b := &MockBackend{}

	var c Counts
	assert.Nil(t, c.fetch(b, 0, model.FilterAll))
	assert.Nil(t, c.Value())

	var f Feedback
	assert.Nil(t, f.fetch(b, 0))
	assert.Nil(t, f.Value())

	b.AssertNotCalled(t, "CategoryCounts")
	b.AssertNotCalled(t, "FeedbackStats")
}

func TestMessageList_PatchReplacesEntries(t *testing.T) {
	l := NewMessageList(10)
	l.replace(testPage())
	before := l.Messages()

	l.patch(11, "개인")

	info, _ := before[1].Classification.Info()
	assert.Equal(t, "업무", info.Category, "earlier snapshot is untouched")

	m, ok := l.Find(11)
	require.True(t, ok)
	info, _ = m.Classification.Info()
	assert.Equal(t, "개인", info.Category)

	l.patch(10, "개인")
	m, _ = l.Find(10)
	assert.False(t, m.Classification.IsClassified(), "unclassified mail is left alone")
}

func TestMessageList_ReplaceSupersedesFetch(t *testing.T) {
	l := NewMessageList(10)
	l.seq = 4
	l.replace(&model.MailListResponse{Total: 1, Messages: []model.MailMessage{{ID: 1}}})

	applied := l.apply(MessagesLoadedMsg{Seq: 4, Response: testPage()})
	assert.False(t, applied)
	assert.Len(t, l.Messages(), 1)
}

func TestMessageList_Page(t *testing.T) {
	l := NewMessageList(20)
	l.total = 0
	_, pages := l.Page()
	assert.Equal(t, 0, pages)

	l.total = 41
	l.setOffset(20)
	cur, pages := l.Page()
	assert.Equal(t, 2, cur)
	assert.Equal(t, 3, pages)
	assert.True(t, l.HasNext())
	assert.True(t, l.HasPrev())
}

func TestCounts_IsDropTarget(t *testing.T) {
	var c Counts
	assert.False(t, c.IsDropTarget("업무"), "unknown counts offer no targets")

	c.value = testCounts()
	assert.True(t, c.IsDropTarget("업무"))
	assert.False(t, c.IsDropTarget(""))
	assert.False(t, c.IsDropTarget(model.CategoryUnclassified))
}

func TestCounts_StaleResultIgnored(t *testing.T) {
	var c Counts
	c.seq = 2
	assert.False(t, c.apply(CountsLoadedMsg{Seq: 1, Counts: testCounts()}))
	assert.Nil(t, c.Value())

	assert.True(t, c.apply(CountsLoadedMsg{Seq: 2, Counts: testCounts()}))
	assert.NotNil(t, c.Value())
}
