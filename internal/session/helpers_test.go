package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"studyreview/internal/api"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 26, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type gradeCall struct {
	reviewID int64
	req      api.GradeRequest
}

// fakeGrader records grading calls. When release is set, Grade blocks until
// it is closed.
type fakeGrader struct {
	mu      sync.Mutex
	calls   []gradeCall
	resp    *api.GradeResponse
	err     error
	entered chan struct{}
	release chan struct{}
}

func newFakeGrader() *fakeGrader {
	return &fakeGrader{
		resp: &api.GradeResponse{Status: api.StatusOK, NextReview: "2024-06-01", IntervalDays: 6},
	}
}

func (g *fakeGrader) Grade(ctx context.Context, reviewID int64, req api.GradeRequest) (*api.GradeResponse, error) {
	g.mu.Lock()
	g.calls = append(g.calls, gradeCall{reviewID: reviewID, req: req})
	resp, err, entered, release := g.resp, g.err, g.entered, g.release
	g.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (g *fakeGrader) Calls() []gradeCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gradeCall(nil), g.calls...)
}

func (g *fakeGrader) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// recordingPresenter stores every signal in order.
type recordingPresenter struct {
	mu        sync.Mutex
	opened    []opened
	closed    []ItemID
	answered  []answered
	completed []Outcome
	reloads   int
	messages  []string
	onOpen    func(ItemID)
}

type opened struct {
	id         ItemID
	suggestion *Quality
}

type answered struct {
	group, correct, chosen string
	ok                     bool
}

func (p *recordingPresenter) OpenConfirmation(id ItemID, suggestion *Quality) {
	p.mu.Lock()
	p.opened = append(p.opened, opened{id: id, suggestion: suggestion})
	hook := p.onOpen
	p.mu.Unlock()
	if hook != nil {
		hook(id)
	}
}

func (p *recordingPresenter) CloseConfirmation(id ItemID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, id)
}

func (p *recordingPresenter) QuizAnswered(group, correct, chosen string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answered = append(p.answered, answered{group, correct, chosen, ok})
}

func (p *recordingPresenter) ItemCompleted(id ItemID, outcome Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, outcome)
}

func (p *recordingPresenter) ReloadSession() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reloads++
}

func (p *recordingPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func newTestTracker() (*Tracker, *fakeGrader, *recordingPresenter, *fakeClock) {
	clock := newFakeClock()
	grader := newFakeGrader()
	presenter := &recordingPresenter{}
	return NewTracker(grader, presenter, WithClock(clock.Now)), grader, presenter, clock
}

var errNetwork = errors.New("connection refused")
