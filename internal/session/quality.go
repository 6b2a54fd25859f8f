package session

import (
	"fmt"
	"strconv"
)

// ItemID identifies a review item within a session.
type ItemID int64

func (id ItemID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Quality is the recall grade sent to the scheduler (0-5).
type Quality int

const (
	QualityFailed  Quality = 0
	QualityHard    Quality = 3
	QualityGood    Quality = 4
	QualityPerfect Quality = 5
)

// DefaultConfidence is reported when the confidence control was never touched.
const DefaultConfidence = 3

// Label returns the advisory text shown next to a suggested quality.
func (q Quality) Label() string {
	switch q {
	case QualityFailed:
		return "Failed (0)"
	case QualityHard:
		return "Recalled with difficulty (3)"
	case QualityGood:
		return "Got it right (4)"
	case QualityPerfect:
		return "Perfect (5)"
	default:
		return strconv.Itoa(int(q))
	}
}

// SuggestionText formats the hint displayed in the confirmation step.
func SuggestionText(q Quality) string {
	return fmt.Sprintf("Suggested quality: %s. You can adjust it below.", q.Label())
}

// Mode is the review format of an item.
type Mode string

const (
	ModeSimple    Mode = "simple"
	ModeFlashcard Mode = "flashcard"
	ModeQuiz      Mode = "quiz"
)

// Gated reports whether the mode requires an interaction before finalizing.
func (m Mode) Gated() bool {
	return m == ModeFlashcard || m == ModeQuiz
}

// quizQuality maps a quiz outcome to its suggested quality.
func quizQuality(correct bool) Quality {
	if correct {
		return QualityGood
	}
	return QualityFailed
}
