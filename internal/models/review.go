package models

import (
	"fmt"
	"time"
)

// Review kinds written when a study is registered and when a grade is accepted
const (
	KindInitial   = "Revisão inicial"
	KindScheduled = "SM-2"
)

// PlannedKinds names the fixed reviews created at registration, in order
var PlannedKinds = []string{"1ª revisão", "2ª revisão", "3ª revisão", "4ª revisão", "5ª revisão"}

// PlannedOffsets are the day offsets of PlannedKinds
var PlannedOffsets = []int{1, 3, 7, 14, 30}

// Review is one scheduled review of a study
type Review struct {
	ID           int64
	StudyID      int64
	DueOn        string
	Kind         string
	Mode         ContentType
	Done         bool
	EaseFactor   float64
	Repetition   int
	IntervalDays int
	Quality      *int
	Confidence   *int
	ResponseTime *int
	CompletedOn  *string
}

// OwnedReview is a review together with the owner of its study
type OwnedReview struct {
	Review
	UserID int64
}

// DueReview is a pending review joined with its study for display
type DueReview struct {
	Review
	Subject       string
	Topic         string
	Question      string
	Answer        string
	Options       map[string]string
	CorrectOption string
}

// DaysLeft returns the days from today until the review is due; zero or
// negative means urgent
func (r *DueReview) DaysLeft(today time.Time) int {
	due, err := ParseDate(r.DueOn)
	if err != nil {
		return 0
	}
	return DaysBetween(today, due)
}

// StatusLabel describes the due date relative to today
func StatusLabel(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return "overdue"
	case daysLeft == 0:
		return "today"
	default:
		return fmt.Sprintf("in %d day(s)", daysLeft)
	}
}

// Completion records a graded review
type Completion struct {
	Quality      int
	Confidence   int
	ResponseTime *int
	CompletedOn  string
}
