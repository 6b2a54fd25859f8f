package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"studyreview/internal/api"
	"studyreview/internal/models"
	"studyreview/internal/repository"
	"studyreview/internal/scheduler"
	"studyreview/internal/validation"
)

// CSVHeader is the first row of the study export
var CSVHeader = []string{"materia", "topico", "data_estudo"}

// StudyService registers studies and exports them
type StudyService struct {
	studyRepo *repository.StudyRepository
	now       func() time.Time
}

// NewStudyService creates a new study service
func NewStudyService(studyRepo *repository.StudyRepository) *StudyService {
	return &StudyService{studyRepo: studyRepo, now: time.Now}
}

// Register stores a study for userID dated today, together with a review due
// today and the fixed follow-up reviews. Every review uses the study's mode.
func (s *StudyService) Register(ctx context.Context, userID int64, req api.StudyRequest) (*models.Study, error) {
	if err := validation.ValidateTopic(req.Subject, req.Topic); err != nil {
		return nil, err
	}

	today := s.now()
	study := &models.Study{
		UserID:      userID,
		Subject:     strings.TrimSpace(req.Subject),
		Topic:       strings.TrimSpace(req.Topic),
		StudiedOn:   models.FormatDate(today),
		ContentType: models.ParseContentType(req.ContentType),
	}

	switch study.ContentType {
	case models.ContentFlashcard:
		study.Question = strings.TrimSpace(req.Question)
		study.Answer = strings.TrimSpace(req.Answer)
		if study.Question == "" || study.Answer == "" {
			return nil, validation.ValidationError{Field: "pergunta", Message: "a flashcard needs a question and an answer"}
		}
	case models.ContentQuiz:
		if err := validation.ValidateQuiz(req.QuizQuestion, req.Options, req.CorrectOption); err != nil {
			return nil, err
		}
		study.Question = strings.TrimSpace(req.QuizQuestion)
		study.Answer = req.CorrectOption
		study.Options = req.Options
	}

	if _, err := s.studyRepo.CreateStudy(ctx, study, plannedReviews(today, study.ContentType)); err != nil {
		return nil, fmt.Errorf("failed to register study: %w", err)
	}
	return study, nil
}

func plannedReviews(today time.Time, mode models.ContentType) []models.Review {
	initial := scheduler.InitialState()
	newReview := func(due time.Time, kind string) models.Review {
		return models.Review{
			DueOn:        models.FormatDate(due),
			Kind:         kind,
			Mode:         mode,
			EaseFactor:   initial.EaseFactor,
			Repetition:   initial.Repetition,
			IntervalDays: initial.IntervalDays,
		}
	}

	reviews := []models.Review{newReview(today, models.KindInitial)}
	for i, offset := range models.PlannedOffsets {
		reviews = append(reviews, newReview(today.AddDate(0, 0, offset), models.PlannedKinds[i]))
	}
	return reviews
}

// ExportCSV writes every study of userID as materia,topico,data_estudo rows
func (s *StudyService) ExportCSV(ctx context.Context, userID int64, w io.Writer) error {
	studies, err := s.studyRepo.ListStudies(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, study := range studies {
		if err := cw.Write([]string{study.Subject, study.Topic, study.StudiedOn}); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
