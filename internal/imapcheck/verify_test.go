package imapcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAuthError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &AuthError{Username: "me@naver.com", Err: errors.New("NO")})
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "me@naver.com")
	assert.False(t, IsAuthError(errors.New("other")))
}

func TestVerifier_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	v := NewVerifier(addr, zerolog.Nop())
	err = v.Verify(context.Background(), "me@naver.com", "pw")
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
}

func TestVerifier_RespectsContext(t *testing.T) {
	// A listener that accepts but never speaks TLS stalls the handshake.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	v := NewVerifier(ln.Addr().String(), zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = v.Verify(ctx, "me@naver.com", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifier_LoginGivesUpOnStalledHandshake(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	v := NewVerifier(ln.Addr().String(), zerolog.Nop())
	v.timeout = 100 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- v.login("me@naver.com", "pw") }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.False(t, IsAuthError(err))
	case <-time.After(5 * time.Second):
		t.Fatal("login did not give up after the dial timeout")
	}
}
