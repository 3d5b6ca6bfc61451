package inbox

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/model"
)

// DragPayload identifies the message being moved. ClassificationID is zero
// when the message has no classification yet.
type DragPayload struct {
	MailID           int64
	ClassificationID int64
}

// PayloadFor builds the payload for m.
func PayloadFor(m model.MailMessage) DragPayload {
	p := DragPayload{MailID: m.ID}
	if info, ok := m.Classification.Info(); ok {
		p.ClassificationID = info.ClassificationID
	}
	return p
}

// DragGesture tracks a picked-up message and the category it hovers over.
// At most one drop target is active at a time.
type DragGesture struct {
	payload DragPayload
	active  bool
	target  string
}

// Active reports whether a message is picked up.
func (g DragGesture) Active() bool { return g.active }

// Payload returns the picked-up message.
func (g DragGesture) Payload() DragPayload { return g.payload }

// Target returns the highlighted drop target, or "".
func (g DragGesture) Target() string { return g.target }

func (g *DragGesture) pick(p DragPayload) {
	*g = DragGesture{payload: p, active: p.MailID != 0}
}

func (g *DragGesture) hover(target string) {
	if g.active {
		g.target = target
	}
}

func (g *DragGesture) cancel() {
	*g = DragGesture{}
}

// release ends the gesture. ok is false when nothing was picked up or no
// target is highlighted.
func (g *DragGesture) release() (DragPayload, string, bool) {
	p, target, active := g.payload, g.target, g.active
	*g = DragGesture{}
	if !active || p.MailID == 0 || target == "" {
		return DragPayload{}, "", false
	}
	return p, target, true
}

// DropStep is a stage of the drop saga.
type DropStep int

const (
	StepClassifying DropStep = iota + 1
	StepRefetching
	StepCorrecting
	StepDone
)

func (s DropStep) String() string {
	switch s {
	case StepClassifying:
		return "classifying"
	case StepRefetching:
		return "refetching"
	case StepCorrecting:
		return "correcting"
	case StepDone:
		return "done"
	default:
		return "pending"
	}
}

// DropError reports the saga step that failed.
type DropError struct {
	Step DropStep
	Err  error
}

func (e *DropError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *DropError) Unwrap() error { return e.Err }

// DropResult is the outcome of a saga run.
type DropResult struct {
	MailID   int64
	Category string

	// Query is the list page the saga refetched.
	Query Query

	// Page is the list page refetched after classifying an unclassified
	// message, or nil.
	Page *model.MailListResponse

	// Corrected is true once the backend accepted the correction.
	Corrected bool

	// Err is a *DropError on failure.
	Err error
}

// DropSaga moves one message into a category.
//
// A classified message is corrected directly. An unclassified one is first
// classified on its own, then the current page is refetched to learn the
// new classification id, then that classification is corrected to the
// target. If the refetched page does not contain the message, the saga ends
// without a correction.
type DropSaga struct {
	backend Backend
	userID  int64
	query   Query
	payload DragPayload
	target  string
	step    DropStep
	log     zerolog.Logger
}

// NewDropSaga prepares a saga. query is the list page to refetch.
func NewDropSaga(b Backend, userID int64, query Query, p DragPayload, target string, log zerolog.Logger) *DropSaga {
	return &DropSaga{
		backend: b,
		userID:  userID,
		query:   query,
		payload: p,
		target:  target,
		log:     log,
	}
}

// Step returns the step currently executing, or the step that failed.
func (s *DropSaga) Step() DropStep { return s.step }

// Run executes the steps in order. It stops at the first failure.
func (s *DropSaga) Run(ctx context.Context) DropResult {
	res := DropResult{MailID: s.payload.MailID, Category: s.target, Query: s.query}

	if s.payload.ClassificationID != 0 {
		if err := s.correct(ctx, s.payload.ClassificationID); err != nil {
			return s.fail(res, err)
		}
		res.Corrected = true
		s.step = StepDone
		return res
	}

	s.step = StepClassifying
	req := api.ClassifyRequest{MailIDs: []int64{s.payload.MailID}}
	if _, err := s.backend.Classify(ctx, s.userID, req); err != nil {
		return s.fail(res, err)
	}

	s.step = StepRefetching
	page, err := s.backend.ListMessages(ctx, s.query.listQuery(s.userID))
	if err != nil {
		return s.fail(res, err)
	}
	res.Page = page

	if m, ok := page.FindMessage(s.payload.MailID); ok {
		if info, ok := m.Classification.Info(); ok {
			if err := s.correct(ctx, info.ClassificationID); err != nil {
				return s.fail(res, err)
			}
			res.Corrected = true
		}
	} else {
		s.log.Debug().Int64("mail_id", s.payload.MailID).Msg("dropped mail not on refetched page")
	}

	s.step = StepDone
	return res
}

func (s *DropSaga) correct(ctx context.Context, classificationID int64) error {
	s.step = StepCorrecting
	return s.backend.UpdateClassification(ctx, s.userID, classificationID, s.target)
}

func (s *DropSaga) fail(res DropResult, err error) DropResult {
	s.log.Warn().Err(err).Stringer("step", s.step).Int64("mail_id", s.payload.MailID).Msg("drop failed")
	res.Err = &DropError{Step: s.step, Err: err}
	return res
}
