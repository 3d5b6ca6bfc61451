package auth

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-organizer/internal/session"
)

// UserSetter signs a user in.
type UserSetter interface {
	SetUser(ctx context.Context, id int64) error
}

const donePage = `<!doctype html>
<html lang="ko"><head><meta charset="utf-8"><title>Mail Organizer</title></head>
<body><h1>Mail Organizer</h1><p>%s</p></body></html>`

// CallbackServer receives the backend's post-login redirect
// (http://localhost:3000?user_id=N) and signs the user in.
type CallbackServer struct {
	app     *fiber.App
	addr    string
	session UserSetter
	log     zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewCallbackServer creates a callback listener for addr.
func NewCallbackServer(addr string, s UserSetter, log zerolog.Logger) *CallbackServer {
	cs := &CallbackServer{
		addr:    addr,
		session: s,
		log:     log.With().Str("component", "callback").Logger(),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	app.Get("/", cs.handleCallback)
	app.Get("/done", cs.handleDone)
	cs.app = app

	return cs
}

// App exposes the fiber app, mainly for tests.
func (cs *CallbackServer) App() *fiber.App {
	return cs.app
}

// Start binds the listener and serves in the background.
func (cs *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", cs.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cs.addr, err)
	}

	cs.mu.Lock()
	cs.listener = ln
	cs.mu.Unlock()

	go func() {
		if err := cs.app.Listener(ln); err != nil {
			cs.log.Debug().Err(err).Msg("callback listener stopped")
		}
	}()
	cs.log.Info().Str("addr", ln.Addr().String()).Msg("waiting for login callback")
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (cs *CallbackServer) Addr() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.listener != nil {
		return cs.listener.Addr().String()
	}
	return cs.addr
}

// Shutdown stops the listener.
func (cs *CallbackServer) Shutdown() error {
	cs.mu.Lock()
	started := cs.listener != nil
	cs.mu.Unlock()
	if !started {
		return nil
	}
	return cs.app.ShutdownWithTimeout(2 * time.Second)
}

func (cs *CallbackServer) handleCallback(c *fiber.Ctx) error {
	u, err := url.Parse(c.OriginalURL())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed URL")
	}

	cleaned, id, found := session.ExtractCallback(u)
	if !found {
		if _, present := u.Query()[session.CallbackParam]; present {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user_id")
		}
		c.Type("html", "utf-8")
		return c.SendString(fmt.Sprintf(donePage, "터미널에서 로그인을 시작하세요."))
	}

	if err := cs.session.SetUser(c.UserContext(), id); err != nil {
		cs.log.Error().Err(err).Msg("storing login callback")
		return fiber.NewError(fiber.StatusInternalServerError, "could not complete login")
	}
	cs.log.Info().Int64("user_id", id).Msg("login callback consumed")

	// The parameter never survives into the browser's visible URL.
	target := "/done"
	if cleaned.RawQuery != "" {
		target += "?" + cleaned.RawQuery
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (cs *CallbackServer) handleDone(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(fmt.Sprintf(donePage, "로그인되었습니다. 터미널로 돌아가세요."))
}
