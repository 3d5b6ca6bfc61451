package maillist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/theme"
	"github.com/nhle/mail-organizer/internal/ui/widget"
)

const (
	senderWidth = 16
	dateWidth   = 8
)

// MailItem wraps a model.MailMessage so it can be used in a bubbles/list.
type MailItem struct {
	Mail model.MailMessage
}

// FilterValue returns the string used for fuzzy filtering.
func (i MailItem) FilterValue() string { return i.Mail.Subject }

// rowState is shared by reference between the Model and its delegate so
// updates are visible without rebuilding the list.
type rowState struct {
	moving int64
	now    func() time.Time
}

// ItemDelegate implements list.ItemDelegate for rendering mail rows.
type ItemDelegate struct {
	state *rowState
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single mail row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MailItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderRow(mi.Mail, index == m.Index(), m.Width()))
}

func (d ItemDelegate) renderRow(mail model.MailMessage, selected bool, width int) string {
	dot := " "
	if !mail.IsRead {
		dot = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("●")
	}

	src := widget.SourceBadge(mail.Source, true)
	badge := widget.CategoryBadge(mail.Classification, true)

	now := time.Now()
	if d.state != nil && d.state.now != nil {
		now = d.state.now()
	}
	date := widget.FormatDate(mail.ReceivedAt.TimeOrNil(), now)
	date = runewidth.FillLeft(date, dateWidth)

	// dot, source, sender and four separators, plus list padding
	fixed := 1 + 1 + senderWidth + lipgloss.Width(badge) + dateWidth + 5 + 3
	subjectWidth := max(width-fixed, 10)

	subject := widget.Fit(mail.DisplaySubject(), subjectWidth)
	if mail.IsRead {
		subject = theme.MutedStyle.Render(subject)
	}

	line := fmt.Sprintf("%s %s %s %s %s %s",
		dot, src, widget.Fit(mail.Sender(), senderWidth), subject, badge, theme.MutedStyle.Render(date))

	if d.state != nil && d.state.moving == mail.ID {
		return theme.DropTargetStyle.Render(line)
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	if !mail.IsRead {
		line = lipgloss.NewStyle().Bold(true).Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
