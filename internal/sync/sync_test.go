package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRefresher_Disabled(t *testing.T) {
	r := New(0)
	assert.Nil(t, r.Start())
	assert.False(t, r.Running())
	r.Stop()
}

func TestRefresher_TicksAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(10 * time.Millisecond)
	cmd := r.Start()
	require.NotNil(t, cmd)
	assert.True(t, r.Running())
	assert.Nil(t, r.Start(), "second start is a no-op")

	msg := cmd()
	_, ok := msg.(TickMsg)
	assert.True(t, ok)

	r.Stop()
	assert.False(t, r.Running())
	assert.Nil(t, r.WaitForNextTick()(), "waiting after stop returns immediately")
	assert.Nil(t, r.Start(), "a stopped refresher stays stopped")
	r.Stop()
}

func TestRefresher_Trigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(time.Hour)
	cmd := r.Start()
	require.NotNil(t, cmd)
	defer r.Stop()

	r.Trigger()
	r.Trigger()

	done := make(chan any, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		_, ok := msg.(TickMsg)
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not produce a tick")
	}
}

func TestBridge_LatestWins(t *testing.T) {
	b := NewBridge[int]()
	b.Send(1)
	b.Send(2)
	b.Send(3)

	assert.Equal(t, 3, b.Wait()())
}
