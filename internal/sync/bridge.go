package sync

import tea "github.com/charmbracelet/bubbletea"

// Bridge carries values produced on other goroutines into the program.
// Only the latest undelivered value is kept.
type Bridge[T any] struct {
	ch chan T
}

// NewBridge creates an empty Bridge.
func NewBridge[T any]() *Bridge[T] {
	return &Bridge[T]{ch: make(chan T, 1)}
}

// Send delivers v without blocking, replacing any value not yet received.
func (b *Bridge[T]) Send(v T) {
	for {
		select {
		case b.ch <- v:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// Wait returns a tea.Cmd that yields the next value as a message.
func (b *Bridge[T]) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}
