package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the storage and wire format of calendar dates
const DateLayout = "2006-01-02"

// FormatDate formats t as a calendar date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar date in UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysBetween returns the whole days from one calendar date to another
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// ContentType is how a study is reviewed
type ContentType string

const (
	ContentSimple    ContentType = "simple"
	ContentFlashcard ContentType = "flashcard"
	ContentQuiz      ContentType = "quiz"
)

// ParseContentType normalizes a content type name. Unknown and empty values,
// including the Portuguese "simples", are plain studies.
func ParseContentType(s string) ContentType {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case ContentFlashcard:
		return ContentFlashcard
	case ContentQuiz:
		return ContentQuiz
	}
	return ContentSimple
}

// Study is a registered topic
type Study struct {
	ID          int64
	UserID      int64
	Subject     string
	Topic       string
	StudiedOn   string
	ContentType ContentType

	// Flashcard: question and answer. Quiz: question, the correct option
	// letter in Answer, and the options keyed by letter.
	Question string
	Answer   string
	Options  map[string]string
}

// EncodeOptions serializes quiz options for storage
func EncodeOptions(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}
	data, err := json.Marshal(options)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeOptions parses stored quiz options; invalid data yields nil
func DecodeOptions(s string) map[string]string {
	if s == "" {
		return nil
	}
	var options map[string]string
	if err := json.Unmarshal([]byte(s), &options); err != nil {
		return nil
	}
	return options
}
