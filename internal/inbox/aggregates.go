package inbox

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-organizer/internal/model"
)

// Counts holds the per-category totals. A nil value means unknown.
type Counts struct {
	value *model.CategoryCounts
	seq   uint64
}

// Value returns the last loaded totals, or nil.
func (c *Counts) Value() *model.CategoryCounts { return c.value }

func (c *Counts) fetch(b Backend, userID int64, source model.SourceFilter) tea.Cmd {
	if userID == 0 {
		return nil
	}
	c.seq++
	seq := c.seq

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		counts, err := b.CategoryCounts(ctx, userID, source)
		return CountsLoadedMsg{Seq: seq, Counts: counts, Err: err}
	}
}

func (c *Counts) apply(msg CountsLoadedMsg) bool {
	if msg.Seq != c.seq {
		return false
	}
	if msg.Err != nil {
		c.value = nil
		return true
	}
	c.value = msg.Counts
	return true
}

// IsDropTarget reports whether name is one of the listed categories.
// The "all" row and the unclassified row never are.
func (c *Counts) IsDropTarget(name string) bool {
	if c.value == nil || name == "" || name == model.CategoryUnclassified {
		return false
	}
	for _, cat := range c.value.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

func (c *Counts) reset() {
	c.seq++
	c.value = nil
}

// Feedback holds the correction summary. A nil value means unknown.
type Feedback struct {
	value *model.FeedbackStats
	seq   uint64
}

// Value returns the last loaded summary, or nil.
func (f *Feedback) Value() *model.FeedbackStats { return f.value }

func (f *Feedback) fetch(b Backend, userID int64) tea.Cmd {
	if userID == 0 {
		return nil
	}
	f.seq++
	seq := f.seq

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		stats, err := b.FeedbackStats(ctx, userID)
		return FeedbackLoadedMsg{Seq: seq, Stats: stats, Err: err}
	}
}

func (f *Feedback) apply(msg FeedbackLoadedMsg) bool {
	if msg.Seq != f.seq {
		return false
	}
	if msg.Err != nil {
		f.value = nil
		return true
	}
	f.value = msg.Stats
	return true
}

func (f *Feedback) reset() {
	f.seq++
	f.value = nil
}
