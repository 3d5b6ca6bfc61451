package imapcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rs/zerolog"
)

// AuthError indicates the IMAP server rejected the credentials.
type AuthError struct {
	Username string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("IMAP login failed for %s: %v", e.Username, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Verifier checks mailbox credentials by logging in over IMAPS and
// immediately logging out. Nothing is read from the mailbox.
type Verifier struct {
	addr    string
	timeout time.Duration
	log     zerolog.Logger
}

// NewVerifier creates a verifier for addr (host:port, implicit TLS).
func NewVerifier(addr string, log zerolog.Logger) *Verifier {
	return &Verifier{
		addr:    addr,
		timeout: 15 * time.Second,
		log:     log.With().Str("component", "imapcheck").Logger(),
	}
}

// Verify logs in with username and password.
func (v *Verifier) Verify(ctx context.Context, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- v.login(username, password) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("connecting to IMAP %s: %w", v.addr, ctx.Err())
	}
}

func (v *Verifier) login(username, password string) error {
	client, err := imapclient.DialTLS(v.addr, &imapclient.Options{
		Dialer: &net.Dialer{Timeout: v.timeout},
	})
	if err != nil {
		return fmt.Errorf("connecting to IMAP %s: %w", v.addr, err)
	}
	defer client.Close()

	if err := client.Login(username, password).Wait(); err != nil {
		v.log.Info().Str("username", username).Msg("IMAP credentials rejected")
		return &AuthError{Username: username, Err: err}
	}

	_ = client.Logout().Wait()
	v.log.Debug().Str("username", username).Msg("IMAP credentials accepted")
	return nil
}
