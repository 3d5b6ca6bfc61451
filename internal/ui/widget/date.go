package widget

import (
	"fmt"
	"time"
)

// FormatDate renders a timestamp relative to now: "HH:MM" on the same
// local calendar day, "M월 D일" otherwise, "" when absent.
func FormatDate(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	local := t.In(now.Location())
	y1, m1, d1 := local.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return local.Format("15:04")
	}
	return fmt.Sprintf("%d월 %d일", int(local.Month()), local.Day())
}

// FormatDateTime renders the full timestamp shown on the detail screen.
func FormatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006. 1. 2. 15:04:05")
}
