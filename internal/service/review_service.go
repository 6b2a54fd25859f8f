package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyreview/internal/api"
	"studyreview/internal/models"
	"studyreview/internal/repository"
	"studyreview/internal/scheduler"
)

var (
	ErrInvalidQuality      = errors.New("quality must be between 0 and 5")
	ErrInvalidConfidence   = errors.New("confidence must be between 1 and 5")
	ErrReviewNotFound      = errors.New("review not found")
	ErrInteractionRequired = errors.New("flashcard and quiz reviews need a response time")
	ErrReviewDone          = errors.New("review already done")
)

const defaultConfidence = 3

// Grade is a validated grading request
type Grade struct {
	Quality *int
	// Confidence defaults to 3 when nil
	Confidence   *int
	ResponseTime *int
}

// GradeResult describes the review scheduled by a grade
type GradeResult struct {
	NextReviewID int64
	NextReview   string
	IntervalDays int
	EaseFactor   float64
}

// ReviewService lists due reviews and applies grades
type ReviewService struct {
	reviewRepo   *repository.ReviewRepository
	settingsRepo *repository.SettingsRepository
	now          func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo *repository.ReviewRepository, settingsRepo *repository.SettingsRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// DueReviews lists the pending reviews of userID due today or earlier, split
// into urgent and upcoming. In pre-exam mode reviews sharing a date come
// lowest confidence first.
func (s *ReviewService) DueReviews(ctx context.Context, userID int64) (*api.ReviewList, error) {
	settings, err := s.settingsRepo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	due, err := s.reviewRepo.ListDue(ctx, userID, models.FormatDate(today), settings.PreExamMode)
	if err != nil {
		return nil, err
	}

	list := &api.ReviewList{
		Urgent:   []api.Review{},
		Upcoming: []api.Review{},
		PreExam:  settings.PreExamMode,
	}
	for _, d := range due {
		r := toAPIReview(d, d.DaysLeft(today))
		if r.DaysLeft <= 0 {
			list.Urgent = append(list.Urgent, r)
		} else {
			list.Upcoming = append(list.Upcoming, r)
		}
	}
	return list, nil
}

func toAPIReview(d *models.DueReview, daysLeft int) api.Review {
	r := api.Review{
		ID:       d.ID,
		Subject:  d.Subject,
		Topic:    d.Topic,
		Kind:     d.Kind,
		DueOn:    d.DueOn,
		DaysLeft: daysLeft,
		Mode:     string(d.Mode),
	}
	switch d.Mode {
	case models.ContentFlashcard:
		r.Question = d.Question
		r.Answer = d.Answer
	case models.ContentQuiz:
		r.Question = d.Question
		r.Options = d.Options
		r.CorrectOption = d.CorrectOption
	}
	return r
}

// Grade validates g for review reviewID owned by userID, marks the review done
// and schedules the next one
func (s *ReviewService) Grade(ctx context.Context, userID, reviewID int64, g Grade) (*GradeResult, error) {
	if g.Quality == nil || *g.Quality < 0 || *g.Quality > 5 {
		return nil, ErrInvalidQuality
	}
	confidence := defaultConfidence
	if g.Confidence != nil {
		confidence = *g.Confidence
	}
	if confidence < 1 || confidence > 5 {
		return nil, ErrInvalidConfidence
	}

	review, err := s.reviewRepo.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	if review.Done {
		return nil, ErrReviewDone
	}
	if review.Mode != models.ContentSimple && (g.ResponseTime == nil || *g.ResponseTime < 0) {
		return nil, ErrInteractionRequired
	}

	settings, err := s.settingsRepo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := scheduler.Schedule(*g.Quality, scheduler.State{
		EaseFactor:   review.EaseFactor,
		IntervalDays: review.IntervalDays,
		Repetition:   review.Repetition,
	}, scheduler.Adjustments{
		Confidence:    confidence,
		PreExam:       settings.PreExamMode,
		PreExamFactor: settings.PreExamFactor,
		ResponseTime:  g.ResponseTime,
	})

	today := s.now()
	nextReview := &models.Review{
		StudyID:      review.StudyID,
		DueOn:        models.FormatDate(today.AddDate(0, 0, next.IntervalDays)),
		Kind:         models.KindScheduled,
		Mode:         review.Mode,
		EaseFactor:   next.EaseFactor,
		Repetition:   next.Repetition,
		IntervalDays: next.IntervalDays,
	}
	completion := models.Completion{
		Quality:      *g.Quality,
		Confidence:   confidence,
		ResponseTime: g.ResponseTime,
		CompletedOn:  models.FormatDate(today),
	}

	id, err := s.reviewRepo.CompleteReview(ctx, reviewID, completion, nextReview)
	if errors.Is(err, repository.ErrReviewAlreadyDone) {
		return nil, ErrReviewDone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to grade review %d: %w", reviewID, err)
	}

	return &GradeResult{
		NextReviewID: id,
		NextReview:   nextReview.DueOn,
		IntervalDays: next.IntervalDays,
		EaseFactor:   next.EaseFactor,
	}, nil
}
