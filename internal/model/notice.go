package model

import "time"

// NoticeLevel distinguishes informational notices from failures.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient message surfaced to the user in the status bar.
type Notice struct {
	// Level controls how the notice is styled.
	Level NoticeLevel

	// Text is the human-readable message.
	Text string

	// CreatedAt is when the notice was raised.
	CreatedAt time.Time
}

// Expired reports whether the notice has been visible longer than ttl.
func (n Notice) Expired(now time.Time, ttl time.Duration) bool {
	return n.Text == "" || now.Sub(n.CreatedAt) > ttl
}
