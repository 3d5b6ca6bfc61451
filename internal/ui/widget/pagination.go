package widget

import (
	"fmt"
	"strings"

	"github.com/nhle/mail-organizer/internal/theme"
)

// Pagination describes the prev / position / next controls.
type Pagination struct {
	Current int
	Total   int
}

// Visible reports whether the controls are shown at all.
func (p Pagination) Visible() bool { return p.Total > 1 }

// PrevEnabled is false on the first page.
func (p Pagination) PrevEnabled() bool { return p.Current > 1 }

// NextEnabled is false on or after the last page.
func (p Pagination) NextEnabled() bool { return p.Current < p.Total }

// Label is the "{cur} / {total}" position text.
func (p Pagination) Label() string {
	return fmt.Sprintf("%d / %d", p.Current, p.Total)
}

// View renders the controls, or "" when there is a single page.
func (p Pagination) View() string {
	if !p.Visible() {
		return ""
	}
	control := func(label string, enabled bool) string {
		if enabled {
			return label
		}
		return theme.DisabledStyle.Render(label)
	}
	return strings.Join([]string{
		control("‹ 이전", p.PrevEnabled()),
		theme.MutedStyle.Render(p.Label()),
		control("다음 ›", p.NextEnabled()),
	}, "  ")
}
