// Package widget renders the small reusable pieces of the dashboard:
// badges, pagination, the list summary and dates.
package widget

import (
	"fmt"
	"math"

	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/theme"
)

// ManualMarker prefixes a category that a person has corrected.
const ManualMarker = "*"

// BadgeText is the plain text of a category badge. The manual marker
// appears iff userFeedback is set; the confidence percentage only when
// known and not compact.
func BadgeText(category string, confidence *float64, userFeedback *string, compact bool) string {
	text := category
	if userFeedback != nil {
		text = ManualMarker + text
	}
	if confidence != nil && !compact {
		text += fmt.Sprintf(" %d%%", int(math.Round(*confidence*100)))
	}
	return text
}

// CategoryBadge renders the badge for a classification, or "-" for an
// unclassified message.
func CategoryBadge(c model.Classification, compact bool) string {
	info, ok := c.Info()
	if !ok {
		return theme.MutedStyle.Render("-")
	}
	return theme.CategoryStyle(info.Category).
		Render("[" + BadgeText(info.Category, info.Confidence, info.UserFeedback, compact) + "]")
}

// SourceBadgeText is "G" or "N" when compact, the provider name otherwise.
func SourceBadgeText(s model.Source, compact bool) string {
	if !compact {
		return s.Label()
	}
	switch s {
	case model.SourceGmail:
		return "G"
	case model.SourceNaver:
		return "N"
	default:
		return "?"
	}
}

// SourceBadge renders the provider badge.
func SourceBadge(s model.Source, compact bool) string {
	return theme.SourceStyle(string(s)).Render(SourceBadgeText(s, compact))
}
