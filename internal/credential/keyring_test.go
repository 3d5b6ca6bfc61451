package credential

import (
	"context"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersister_RoundTrip(t *testing.T) {
	p := NewPersister(keyring.NewArrayKeyring(nil))
	ctx := context.Background()

	_, ok, err := p.LoadUserID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.SaveUserID(ctx, 11))
	id, ok, err := p.LoadUserID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(11), id)

	require.NoError(t, p.ClearUserID(ctx))
	require.NoError(t, p.ClearUserID(ctx))
	_, ok, err = p.LoadUserID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersister_IgnoresMalformedItem(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "user_id", Data: []byte("x")}})
	p := NewPersister(ring)

	_, ok, err := p.LoadUserID(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
