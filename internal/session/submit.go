package session

import (
	"context"
	"log"
	"math"

	"studyreview/internal/api"
)

// SubmitResult is delivered by SubmitAsync.
type SubmitResult struct {
	Outcome *Outcome
	Err     error
}

// Submit sends quality for the active item. On success the item's state and
// the selection are cleared and the item leaves the session; on failure the
// state is kept so the call can be retried with an accurate elapsed time.
//
// The tracker lock is not held during the request, so other items can be
// worked on while it is pending.
func (t *Tracker) Submit(ctx context.Context, quality Quality) (*Outcome, error) {
	t.mu.Lock()
	if !t.sel.hasActive {
		t.mu.Unlock()
		t.presenter.Notify(msgNoSelection)
		return nil, ErrNoActiveSelection
	}
	if t.inFlight {
		t.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	id := t.sel.active
	req := t.gradeRequestLocked(id, quality)
	t.inFlight = true
	t.mu.Unlock()

	resp, err := t.grader.Grade(ctx, int64(id), req)

	t.mu.Lock()
	t.inFlight = false
	if err != nil {
		t.mu.Unlock()
		terr := &TransportError{ItemID: id, Err: err}
		log.Printf("session %s: %v", t.id, terr)
		t.presenter.Notify(terr.Message())
		return nil, terr
	}

	delete(t.items, id)
	delete(t.visible, id)
	if t.sel.hasActive && t.sel.active == id {
		t.sel = selection{}
	}
	empty := len(t.visible) == 0
	t.mu.Unlock()

	outcome := Outcome{
		ItemID:       id,
		Quality:      quality,
		ResponseTime: req.ResponseTime,
		NextReview:   resp.NextReview,
		IntervalDays: resp.IntervalDays,
	}

	t.presenter.CloseConfirmation(id)
	t.presenter.ItemCompleted(id, outcome)
	if empty {
		t.presenter.ReloadSession()
	}
	return &outcome, nil
}

// SubmitAsync runs Submit in its own goroutine. The channel receives exactly
// one result and is then closed.
func (t *Tracker) SubmitAsync(ctx context.Context, quality Quality) <-chan SubmitResult {
	done := make(chan SubmitResult, 1)
	go func() {
		defer close(done)
		outcome, err := t.Submit(ctx, quality)
		done <- SubmitResult{Outcome: outcome, Err: err}
	}()
	return done
}

func (t *Tracker) gradeRequestLocked(id ItemID, quality Quality) api.GradeRequest {
	confidence := t.sel.confidence
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	interacted := t.sel.suggestion != nil
	var elapsed *int
	if it, ok := t.items[id]; ok {
		interacted = interacted || it.interacted || it.quizAnswered
		if !it.startedAt.IsZero() {
			secs := int(math.Round(t.now().Sub(it.startedAt).Seconds()))
			if secs < 0 {
				secs = 0
			}
			elapsed = &secs
		}
	}

	return api.GradeRequest{
		Quality:      int(quality),
		Confidence:   confidence,
		ResponseTime: elapsed,
		Interacted:   interacted,
	}
}
