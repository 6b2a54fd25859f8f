package session

import (
	"errors"
	"fmt"

	"studyreview/internal/client"
)

var (
	ErrGuardViolation     = errors.New("interaction required before finalizing")
	ErrNoActiveSelection  = errors.New("no review selected")
	ErrAlreadyAnswered    = errors.New("quiz already answered")
	ErrSubmissionInFlight = errors.New("a grade submission is already in flight")
	ErrInvalidConfidence  = errors.New("confidence must be between 1 and 5")
	ErrUnknownCommand     = errors.New("unknown command")
)

const (
	msgNoSelection    = "Error: no review selected"
	msgFlashcardGuard = "Reveal the answer or use wrong/right before finishing."
	msgQuizGuard      = "Answer the quiz before finishing."
	msgTransport      = "Could not mark the review as done. Try again."
)

// GuardError is returned when an item is finalized before its mode's
// required interaction happened.
type GuardError struct {
	ItemID ItemID
	Mode   Mode
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("review %s (%s): %v", e.ItemID, e.Mode, ErrGuardViolation)
}

func (e *GuardError) Is(target error) bool {
	return target == ErrGuardViolation
}

// Message is the text shown to the user.
func (e *GuardError) Message() string {
	if e.Mode == ModeQuiz {
		return msgQuizGuard
	}
	return msgFlashcardGuard
}

// TransportError wraps a failed grading request. Item state is kept so the
// submission can be retried.
type TransportError struct {
	ItemID ItemID
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("grade review %s: %v", e.ItemID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message prefers the server-provided message when there is one.
func (e *TransportError) Message() string {
	var apiErr *client.APIError
	if errors.As(e.Err, &apiErr) && apiErr.Message != "" {
		return "Error: " + apiErr.Message
	}
	return msgTransport
}
