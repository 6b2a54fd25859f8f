package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyreview/internal/api"
	"studyreview/internal/client"
)

func TestSubmitWithoutSelection(t *testing.T) {
	tr, grader, p, _ := newTestTracker()
	tr.RevealAnswer(1)

	out, err := tr.Submit(context.Background(), QualityGood)

	assert.ErrorIs(t, err, ErrNoActiveSelection)
	assert.Nil(t, out)
	assert.Empty(t, grader.Calls())
	assert.Equal(t, []string{msgNoSelection}, p.messages)
}

func TestSubmitQuizScenario(t *testing.T) {
	tr, grader, p, clock := newTestTracker()
	tr.Show(42)

	q, err := tr.EvaluateQuiz(42, "B", "B", "quiz-42")
	require.NoError(t, err)
	require.Equal(t, QualityGood, q)

	clock.Advance(17 * time.Second)
	require.NoError(t, tr.SetConfidence(4))
	out, err := tr.Submit(context.Background(), QualityPerfect)
	require.NoError(t, err)

	calls := grader.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(42), calls[0].reviewID)
	require.NotNil(t, calls[0].req.ResponseTime)
	assert.Equal(t, api.GradeRequest{
		Quality:      5,
		Confidence:   4,
		ResponseTime: calls[0].req.ResponseTime,
		Interacted:   true,
	}, calls[0].req)
	assert.Equal(t, 17, *calls[0].req.ResponseTime)

	assert.Equal(t, "2024-06-01", out.NextReview)
	assert.Equal(t, 6, out.IntervalDays)
	_, ok := tr.State(42)
	assert.False(t, ok)
	_, ok = tr.Active()
	assert.False(t, ok)

	assert.Equal(t, []ItemID{42}, p.closed)
	require.Len(t, p.completed, 1)
	assert.Equal(t, ItemID(42), p.completed[0].ItemID)
	assert.Equal(t, 1, p.reloads)
}

func TestSubmitLeavesOtherItems(t *testing.T) {
	tr, grader, p, clock := newTestTracker()
	tr.Show(1, 2)

	tr.RevealAnswer(1)
	tr.RevealAnswer(2)
	clock.Advance(90 * time.Second)
	require.NoError(t, tr.OpenFinalize(1, ModeFlashcard))

	_, err := tr.Submit(context.Background(), QualityHard)
	require.NoError(t, err)

	_, ok := tr.State(1)
	assert.False(t, ok)
	other, ok := tr.State(2)
	require.True(t, ok)
	assert.True(t, other.Interacted)
	assert.Equal(t, 1, tr.Visible())
	assert.Zero(t, p.reloads)

	req := grader.Calls()[0].req
	assert.Equal(t, DefaultConfidence, req.Confidence)
	assert.Equal(t, 90, *req.ResponseTime)
	assert.True(t, req.Interacted)
}

func TestSubmitElapsed(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		want    int
	}{
		{"immediate", 0, 0},
		{"rounds down", 2400 * time.Millisecond, 2},
		{"rounds up", 2600 * time.Millisecond, 3},
		{"long idle", 3 * time.Hour, 10800},
		{"clock went back", -5 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, grader, _, clock := newTestTracker()
			require.NoError(t, tr.OpenFinalize(3, ModeSimple))
			clock.Advance(tt.advance)

			_, err := tr.Submit(context.Background(), QualityGood)
			require.NoError(t, err)

			req := grader.Calls()[0].req
			require.NotNil(t, req.ResponseTime)
			assert.Equal(t, tt.want, *req.ResponseTime)
		})
	}
}

func TestSubmitWithoutTimer(t *testing.T) {
	tr, grader, _, _ := newTestTracker()

	tr.SuggestQuality(11, QualityHard)
	_, err := tr.Submit(context.Background(), QualityHard)
	require.NoError(t, err)

	req := grader.Calls()[0].req
	assert.Nil(t, req.ResponseTime)
	assert.True(t, req.Interacted, "a suggestion counts as interaction")
}

func TestSubmitSimpleNotInteracted(t *testing.T) {
	tr, grader, _, _ := newTestTracker()

	require.NoError(t, tr.OpenFinalize(12, ModeSimple))
	_, err := tr.Submit(context.Background(), QualityGood)
	require.NoError(t, err)

	assert.False(t, grader.Calls()[0].req.Interacted)
}

func TestSubmitFailurePreservesState(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"network", errNetwork, msgTransport},
		{"server message", &client.APIError{StatusCode: 200, Message: "Revisão não encontrada"}, "Error: Revisão não encontrada"},
		{"server without message", &client.APIError{StatusCode: 500}, msgTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, grader, p, clock := newTestTracker()
			tr.Show(5)
			_, err := tr.EvaluateQuiz(5, "A", "A", "g")
			require.NoError(t, err)
			before, _ := tr.State(5)

			grader.Fail(tt.err)
			clock.Advance(4 * time.Second)
			_, err = tr.Submit(context.Background(), QualityGood)

			var terr *TransportError
			require.ErrorAs(t, err, &terr)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, []string{tt.message}, p.messages)

			after, ok := tr.State(5)
			require.True(t, ok)
			assert.Equal(t, before, after)
			id, ok := tr.Active()
			require.True(t, ok)
			assert.Equal(t, ItemID(5), id)
			assert.Empty(t, p.completed)

			// Retry keeps counting from the original start.
			grader.Fail(nil)
			clock.Advance(6 * time.Second)
			_, err = tr.Submit(context.Background(), QualityGood)
			require.NoError(t, err)
			calls := grader.Calls()
			require.Len(t, calls, 2)
			assert.Equal(t, 10, *calls[1].req.ResponseTime)
		})
	}
}

func TestSubmitInFlight(t *testing.T) {
	tr, grader, _, _ := newTestTracker()
	grader.entered = make(chan struct{}, 1)
	grader.release = make(chan struct{})
	tr.Show(1, 2)

	tr.RevealAnswer(1)
	require.NoError(t, tr.OpenFinalize(1, ModeFlashcard))
	done := tr.SubmitAsync(context.Background(), QualityGood)
	<-grader.entered

	_, err := tr.Submit(context.Background(), QualityGood)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	// Other items stay usable while the request is pending.
	tr.StartTimer(2)
	_, ok := tr.State(2)
	assert.True(t, ok)

	close(grader.release)
	res := <-done
	require.NoError(t, res.Err)
	assert.Equal(t, ItemID(1), res.Outcome.ItemID)

	_, open := <-done
	assert.False(t, open)
	assert.Len(t, grader.Calls(), 1)
}

func TestSubmitResetsConfidence(t *testing.T) {
	tr, grader, _, _ := newTestTracker()

	require.NoError(t, tr.SetConfidence(1))
	require.NoError(t, tr.OpenFinalize(1, ModeSimple))
	_, err := tr.Submit(context.Background(), QualityGood)
	require.NoError(t, err)

	require.NoError(t, tr.OpenFinalize(2, ModeSimple))
	_, err = tr.Submit(context.Background(), QualityGood)
	require.NoError(t, err)

	calls := grader.Calls()
	assert.Equal(t, 1, calls[0].req.Confidence)
	assert.Equal(t, DefaultConfidence, calls[1].req.Confidence)
}
