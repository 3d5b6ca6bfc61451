package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/app"
	"github.com/nhle/mail-organizer/internal/auth"
	"github.com/nhle/mail-organizer/internal/credential"
	"github.com/nhle/mail-organizer/internal/imapcheck"
	"github.com/nhle/mail-organizer/internal/inbox"
	"github.com/nhle/mail-organizer/internal/logging"
	"github.com/nhle/mail-organizer/internal/model"
	"github.com/nhle/mail-organizer/internal/session"
	"github.com/nhle/mail-organizer/internal/store"
	appsync "github.com/nhle/mail-organizer/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mailorganizer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if exists (for local development)
	_ = godotenv.Load()

	configPath := flag.String("config", model.DefaultConfigPath(), "path to the YAML config file")
	launchURL := flag.String("url", "", "launch URL; a user_id query parameter signs that user in")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	persister, closePersister, err := openPersister(cfg)
	if err != nil {
		return err
	}
	defer closePersister.Close()

	sess := session.New(persister, log)
	var launch *url.URL
	if *launchURL != "" {
		if launch, err = url.Parse(*launchURL); err != nil {
			return fmt.Errorf("parsing --url: %w", err)
		}
	}
	if _, err := sess.Hydrate(context.Background(), launch); err != nil {
		log.Warn().Err(err).Msg("restoring session")
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithLogger(log),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second),
	)

	var opener func(context.Context, string) error
	if cfg.Auth.OpenBrowser {
		opener = auth.OpenBrowser
	}
	flow := auth.NewFlow(client, opener, log)

	callback := auth.NewCallbackServer(cfg.Auth.CallbackAddr, sess, log)
	if err := callback.Start(); err != nil {
		// Signing in from the launch URL still works without the listener.
		log.Warn().Err(err).Msg("login callback listener unavailable")
	}
	defer callback.Shutdown()

	opts := inbox.Options{
		PageSize:       cfg.Inbox.PageSize,
		SyncMaxResults: cfg.Inbox.SyncMaxResults,
	}
	if cfg.Naver.VerifyIMAP {
		opts.Verifier = imapcheck.NewVerifier(cfg.Naver.IMAPAddr, log)
	}
	dash := inbox.New(client, sess, opts, log)

	refresher := appsync.New(time.Duration(cfg.Inbox.RefreshIntervalSec) * time.Second)
	defer refresher.Stop()

	root := app.New(app.Options{
		Dashboard: dash,
		Session:   sess,
		Health:    client,
		Login:     flow,
		Refresher: refresher,
		Log:       log,
	})

	log.Info().Str("api", client.BaseURL()).Str("session", cfg.Session.Backend).Msg("starting")
	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openPersister returns the configured session persistence and what to
// close on exit.
func openPersister(cfg *model.AppConfig) (session.Persister, io.Closer, error) {
	switch cfg.Session.Backend {
	case "keyring":
		ring, err := credential.Open(filepath.Dir(cfg.Session.DBPath))
		if err != nil {
			return nil, nil, err
		}
		return credential.NewPersister(ring), io.NopCloser(nil), nil
	default:
		s, err := store.NewSQLiteStore(cfg.Session.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}
