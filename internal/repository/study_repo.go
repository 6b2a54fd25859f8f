package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studyreview/internal/database"
	"studyreview/internal/models"
)

// StudyRepository handles database operations for studies
type StudyRepository struct {
	db *database.DB
}

// NewStudyRepository creates a new study repository
func NewStudyRepository(db *database.DB) *StudyRepository {
	return &StudyRepository{db: db}
}

// CreateStudy inserts a study together with its planned reviews in one transaction
func (r *StudyRepository) CreateStudy(ctx context.Context, study *models.Study, reviews []models.Review) (int64, error) {
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := `
			INSERT INTO studies (user_id, subject, topic, studied_on, content_type, question, answer, options)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		id, err := tx.ExecReturningID(ctx, query,
			study.UserID, study.Subject, study.Topic, study.StudiedOn, string(study.ContentType),
			study.Question, study.Answer, models.EncodeOptions(study.Options))
		if err != nil {
			return fmt.Errorf("failed to create study: %w", err)
		}
		study.ID = id

		for i := range reviews {
			reviews[i].StudyID = id
			if reviews[i].ID, err = insertReview(ctx, tx, &reviews[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return study.ID, nil
}

// ListStudies returns every study of a user in registration order
func (r *StudyRepository) ListStudies(ctx context.Context, userID int64) ([]*models.Study, error) {
	query := `
		SELECT id, user_id, subject, topic, studied_on, content_type, question, answer, options
		FROM studies
		WHERE user_id = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list studies: %w", err)
	}
	defer rows.Close()

	var studies []*models.Study
	for rows.Next() {
		s := &models.Study{}
		var contentType, options string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Subject, &s.Topic, &s.StudiedOn, &contentType, &s.Question, &s.Answer, &options); err != nil {
			return nil, fmt.Errorf("failed to scan study: %w", err)
		}
		s.ContentType = models.ParseContentType(contentType)
		s.Options = models.DecodeOptions(options)
		studies = append(studies, s)
	}
	return studies, rows.Err()
}

// CountStudies counts the studies of a user registered on or after since;
// an empty since counts all of them
func (r *StudyRepository) CountStudies(ctx context.Context, userID int64, since string) (int, error) {
	query := `SELECT COUNT(*) FROM studies WHERE user_id = ? AND studied_on >= ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count studies: %w", err)
	}
	return count, nil
}

// FirstStudyDate returns the earliest registration date of a user, or "" when
// the user has no studies
func (r *StudyRepository) FirstStudyDate(ctx context.Context, userID int64) (string, error) {
	var first sql.NullString
	query := `SELECT MIN(studied_on) FROM studies WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&first); err != nil {
		return "", fmt.Errorf("failed to get first study date: %w", err)
	}
	return first.String, nil
}
