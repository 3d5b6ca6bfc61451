package session

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// CallbackParam is the query parameter the backend appends to the
// post-login redirect.
const CallbackParam = "user_id"

// Status distinguishes "not yet known" from "signed out".
type Status int

const (
	StatusUnhydrated Status = iota
	StatusSignedOut
	StatusSignedIn
)

func (s Status) String() string {
	switch s {
	case StatusSignedOut:
		return "signed-out"
	case StatusSignedIn:
		return "signed-in"
	default:
		return "unhydrated"
	}
}

// Snapshot is the session state delivered to subscribers.
type Snapshot struct {
	Status Status
	UserID int64
}

// Persister stores the signed-in user id under one fixed key.
type Persister interface {
	LoadUserID(ctx context.Context) (int64, bool, error)
	SaveUserID(ctx context.Context, id int64) error
	ClearUserID(ctx context.Context) error
}

// Session holds the signed-in user for one application instance and
// notifies subscribers synchronously on every change.
type Session struct {
	mu        sync.Mutex
	persister Persister
	log       zerolog.Logger
	status    Status
	userID    int64
	subs      map[int]func(Snapshot)
	nextSub   int
}

// New creates an unhydrated session backed by p.
func New(p Persister, log zerolog.Logger) *Session {
	return &Session{
		persister: p,
		log:       log.With().Str("component", "session").Logger(),
		subs:      make(map[int]func(Snapshot)),
	}
}

// Status returns the hydration/sign-in state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentUser returns the signed-in user id, if any.
func (s *Session) CurrentUser() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.status == StatusSignedIn
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Status: s.status, UserID: s.userID}
}

// OnChange registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Session) OnChange(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Hydrate resolves the initial user. A user_id parameter on launch takes
// priority and is persisted; otherwise the persisted id is used. The
// returned URL is launch with the parameter removed, or nil when launch
// is nil.
func (s *Session) Hydrate(ctx context.Context, launch *url.URL) (*url.URL, error) {
	cleaned, id, found := ExtractCallback(launch)
	if found {
		if err := s.persister.SaveUserID(ctx, id); err != nil {
			s.log.Warn().Err(err).Msg("persisting callback user id")
		}
		s.set(StatusSignedIn, id)
		s.log.Info().Int64("user_id", id).Msg("session from login callback")
		return cleaned, nil
	}

	id, ok, err := s.persister.LoadUserID(ctx)
	if err != nil {
		s.set(StatusSignedOut, 0)
		return cleaned, fmt.Errorf("loading persisted session: %w", err)
	}
	if ok {
		s.set(StatusSignedIn, id)
		s.log.Info().Int64("user_id", id).Msg("session resumed")
	} else {
		s.set(StatusSignedOut, 0)
	}
	return cleaned, nil
}

// SetUser signs in id, persisting it first.
func (s *Session) SetUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid user id %d", id)
	}
	if err := s.persister.SaveUserID(ctx, id); err != nil {
		return fmt.Errorf("persisting user id: %w", err)
	}
	s.set(StatusSignedIn, id)
	return nil
}

// Clear signs out: the persisted id is removed and subscribers see the
// signed-out state before Clear returns.
func (s *Session) Clear(ctx context.Context) {
	if err := s.persister.ClearUserID(ctx); err != nil {
		s.log.Warn().Err(err).Msg("clearing persisted user id")
	}
	s.set(StatusSignedOut, 0)
}

// Invalidate handles a failed who-am-I lookup for id. It only clears the
// session if id is still the current user, so a late failure for a
// previous user cannot sign out a newer one.
func (s *Session) Invalidate(ctx context.Context, id int64) bool {
	current, ok := s.CurrentUser()
	if !ok || current != id {
		return false
	}
	s.log.Info().Int64("user_id", id).Msg("stored session rejected, signing out")
	s.Clear(ctx)
	return true
}

func (s *Session) set(status Status, id int64) {
	s.mu.Lock()
	s.status = status
	s.userID = id
	snap := Snapshot{Status: status, UserID: id}
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// ExtractCallback returns u without the user_id parameter and the id it
// carried. Invalid ids are stripped but not reported as found.
func ExtractCallback(u *url.URL) (*url.URL, int64, bool) {
	if u == nil {
		return nil, 0, false
	}
	cleaned := *u
	q := cleaned.Query()
	raw, present := q[CallbackParam]
	if !present {
		return &cleaned, 0, false
	}
	q.Del(CallbackParam)
	cleaned.RawQuery = q.Encode()

	if len(raw) == 0 {
		return &cleaned, 0, false
	}
	id, err := strconv.ParseInt(raw[0], 10, 64)
	if err != nil || id <= 0 {
		return &cleaned, 0, false
	}
	return &cleaned, id, true
}
