// Package session tracks the in-memory state of a review session: when each
// item was first touched, whether its required interaction happened, which
// item the grade confirmation targets, and the submission of that grade.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyreview/internal/api"
)

// Grader sends a grade for one review to the scheduling backend.
type Grader interface {
	Grade(ctx context.Context, reviewID int64, req api.GradeRequest) (*api.GradeResponse, error)
}

// ItemState is a snapshot of the tracked state of one item.
type ItemState struct {
	StartedAt    time.Time
	Interacted   bool
	QuizAnswered bool
}

type itemState struct {
	startedAt    time.Time
	interacted   bool
	quizAnswered bool
}

// selection is the single grade-confirmation slot.
type selection struct {
	active     ItemID
	hasActive  bool
	suggestion *Quality
	confidence int
}

// Tracker owns the state of one review session. Per-item state is created on
// first interaction and removed when the item's grade is accepted.
type Tracker struct {
	id        string
	grader    Grader
	presenter Presenter
	now       func() time.Time

	mu       sync.Mutex
	items    map[ItemID]*itemState
	visible  map[ItemID]struct{}
	sel      selection
	inFlight bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates an empty session. A nil presenter discards all signals.
func NewTracker(grader Grader, presenter Presenter, opts ...Option) *Tracker {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	t := &Tracker{
		id:        uuid.NewString(),
		grader:    grader,
		presenter: presenter,
		now:       time.Now,
		items:     make(map[ItemID]*itemState),
		visible:   make(map[ItemID]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the identifier used for this session in logs.
func (t *Tracker) ID() string {
	return t.id
}

// Show adds items to the visible session.
func (t *Tracker) Show(ids ...ItemID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.visible[id] = struct{}{}
	}
}

// Visible returns how many items are still in the session.
func (t *Tracker) Visible() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.visible)
}

// Close tears the session down, dropping every item and the selection.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make(map[ItemID]*itemState)
	t.visible = make(map[ItemID]struct{})
	t.sel = selection{}
}

// StartTimer records the current time for id unless a start time exists.
func (t *Tracker) StartTimer(id ItemID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLocked(id)
}

// MarkInteracted satisfies the interaction gate of id and starts its timer.
func (t *Tracker) MarkInteracted(id ItemID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.itemLocked(id).interacted = true
	t.startLocked(id)
}

// RevealAnswer handles the flashcard "show answer" trigger.
func (t *Tracker) RevealAnswer(id ItemID) {
	t.MarkInteracted(id)
}

// SelfGrade handles the flashcard wrong/right shortcut: the card counts as
// studied and q is offered as the suggestion.
func (t *Tracker) SelfGrade(id ItemID, q Quality) {
	t.MarkInteracted(id)
	t.SuggestQuality(id, q)
}

// IsInteracted reports whether the interaction gate of id is satisfied.
func (t *Tracker) IsInteracted(id ItemID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	it, ok := t.items[id]
	return ok && it.interacted
}

// State returns the tracked state of id, if any.
func (t *Tracker) State(id ItemID) (ItemState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	it, ok := t.items[id]
	if !ok {
		return ItemState{}, false
	}
	return ItemState{
		StartedAt:    it.startedAt,
		Interacted:   it.interacted,
		QuizAnswered: it.quizAnswered,
	}, true
}

// Active returns the item targeted by the open confirmation step.
func (t *Tracker) Active() (ItemID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sel.active, t.sel.hasActive
}

// Suggestion returns the quality pre-filled for the active item.
func (t *Tracker) Suggestion() (Quality, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sel.suggestion == nil {
		return 0, false
	}
	return *t.sel.suggestion, true
}

func (t *Tracker) itemLocked(id ItemID) *itemState {
	it, ok := t.items[id]
	if !ok {
		it = &itemState{}
		t.items[id] = it
	}
	return it
}

func (t *Tracker) startLocked(id ItemID) {
	it := t.itemLocked(id)
	if it.startedAt.IsZero() {
		it.startedAt = t.now()
	}
}
