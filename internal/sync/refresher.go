// Package sync moves work that happens outside the Bubble Tea update loop
// (timers and callbacks from other goroutines) into it as messages.
package sync

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the dashboard to re-read the list and counts.
type TickMsg struct {
	At time.Time
}

// Refresher emits a TickMsg every interval until stopped.
type Refresher struct {
	interval  time.Duration
	tickCh    chan TickMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	done      chan struct{}
	mu        gosync.Mutex
	running   bool
	stopped   bool
}

// New creates a Refresher. A non-positive interval disables it.
func New(interval time.Duration) *Refresher {
	return &Refresher{
		interval:  interval,
		tickCh:    make(chan TickMsg, 1),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the ticker goroutine and returns the subscription command.
// It returns nil when disabled, already running or stopped.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running || r.stopped || r.interval <= 0 {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()
	return r.WaitForNextTick()
}

// Stop halts the ticker goroutine and waits for it to exit. A stopped
// Refresher cannot be restarted.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	wasRunning := r.running
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	if wasRunning {
		<-r.done
	}
}

// Running reports whether the ticker goroutine is active.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Trigger requests an immediate tick and restarts the interval.
func (r *Refresher) Trigger() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// A trigger is already pending.
	}
}

func (r *Refresher) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case t := <-ticker.C:
			r.send(TickMsg{At: t})
		case <-r.triggerCh:
			ticker.Reset(r.interval)
			r.send(TickMsg{At: time.Now()})
		}
	}
}

// send delivers a tick without blocking. An undelivered tick already
// covers this one.
func (r *Refresher) send(msg TickMsg) {
	select {
	case r.tickCh <- msg:
	default:
	}
}

// WaitForNextTick returns a tea.Cmd that waits for the next tick. Call it
// again after handling each TickMsg to keep listening. After Stop the
// command returns nil.
func (r *Refresher) WaitForNextTick() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-r.tickCh:
			return t
		case <-r.stopCh:
			return nil
		}
	}
}
