package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LoginURLProvider returns the external authorization URL.
type LoginURLProvider interface {
	LoginURL(ctx context.Context) (string, error)
}

// Flow starts a browser login. Completion arrives through the
// CallbackServer, not through Flow.
type Flow struct {
	backend LoginURLProvider
	open    func(ctx context.Context, rawURL string) error
	log     zerolog.Logger
}

// NewFlow creates a login flow. open may be nil, in which case the
// authorization URL is only returned for display.
func NewFlow(backend LoginURLProvider, open func(ctx context.Context, rawURL string) error, log zerolog.Logger) *Flow {
	return &Flow{
		backend: backend,
		open:    open,
		log:     log.With().Str("component", "auth").Logger(),
	}
}

// Start requests the authorization URL and hands it to the browser.
// The URL is returned so the UI can show it when no browser opens.
func (f *Flow) Start(ctx context.Context) (string, error) {
	authURL, err := f.backend.LoginURL(ctx)
	if err != nil {
		return "", fmt.Errorf("requesting login URL: %w", err)
	}

	if f.open == nil {
		return authURL, nil
	}
	if err := f.open(ctx, authURL); err != nil {
		f.log.Warn().Err(err).Msg("could not open browser")
		return authURL, fmt.Errorf("opening browser: %w", err)
	}
	f.log.Info().Msg("authorization page opened")
	return authURL, nil
}
