package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyreview/internal/database"
	"studyreview/internal/models"
)

// ErrReviewAlreadyDone is returned when a review was completed concurrently
var ErrReviewAlreadyDone = errors.New("review already done")

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func insertReview(ctx context.Context, db database.DBTX, rev *models.Review) (int64, error) {
	query := `
		INSERT INTO reviews (study_id, due_on, kind, mode, done, ease_factor, repetition, interval_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := db.ExecReturningID(ctx, query,
		rev.StudyID, rev.DueOn, rev.Kind, string(rev.Mode), rev.Done,
		rev.EaseFactor, rev.Repetition, rev.IntervalDays)
	if err != nil {
		return 0, fmt.Errorf("failed to create review: %w", err)
	}
	return id, nil
}

// ListDue returns the pending reviews of a user due on or before upTo, oldest
// first. With lowConfidenceFirst, reviews sharing a date are ordered by the
// lowest recorded confidence.
func (r *ReviewRepository) ListDue(ctx context.Context, userID int64, upTo string, lowConfidenceFirst bool) ([]*models.DueReview, error) {
	order := "r.due_on ASC, r.id ASC"
	if lowConfidenceFirst {
		order = "r.due_on ASC, COALESCE(r.confidence, 3) ASC, r.id ASC"
	}
	query := `
		SELECT r.id, r.study_id, r.due_on, r.kind, r.mode, r.ease_factor, r.repetition, r.interval_days,
			s.subject, s.topic, s.question, s.answer, s.options
		FROM reviews r
		JOIN studies s ON r.study_id = s.id
		WHERE r.done = ` + r.db.Dialect.BoolValue(false) + ` AND s.user_id = ? AND r.due_on <= ?
		ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, userID, upTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.DueReview
	for rows.Next() {
		d := &models.DueReview{}
		var mode, options string
		err := rows.Scan(&d.ID, &d.StudyID, &d.DueOn, &d.Kind, &mode, &d.EaseFactor, &d.Repetition, &d.IntervalDays,
			&d.Subject, &d.Topic, &d.Question, &d.Answer, &options)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due review: %w", err)
		}
		d.Mode = models.ParseContentType(mode)
		if d.Mode == models.ContentQuiz {
			d.CorrectOption = d.Answer
			d.Answer = ""
		}
		d.Options = models.DecodeOptions(options)
		reviews = append(reviews, d)
	}
	return reviews, rows.Err()
}

// GetReview retrieves a review with the owner of its study; nil when absent
func (r *ReviewRepository) GetReview(ctx context.Context, id int64) (*models.OwnedReview, error) {
	query := `
		SELECT r.id, r.study_id, r.due_on, r.kind, r.mode, r.done, r.ease_factor, r.repetition, r.interval_days, s.user_id
		FROM reviews r
		JOIN studies s ON r.study_id = s.id
		WHERE r.id = ?
	`
	o := &models.OwnedReview{}
	var mode string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.StudyID, &o.DueOn, &o.Kind, &mode, &o.Done,
		&o.EaseFactor, &o.Repetition, &o.IntervalDays, &o.UserID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	o.Mode = models.ParseContentType(mode)
	return o, nil
}

// CompleteReview marks a review done with its grade and inserts the next
// review of the same study, in one transaction. It returns the next review's ID.
func (r *ReviewRepository) CompleteReview(ctx context.Context, id int64, c models.Completion, next *models.Review) (int64, error) {
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := `
			UPDATE reviews
			SET done = ?, quality = ?, confidence = ?, response_time = ?, completed_on = ?
			WHERE id = ? AND done = ` + r.db.Dialect.BoolValue(false)

		var responseTime any
		if c.ResponseTime != nil {
			responseTime = *c.ResponseTime
		}
		res, err := tx.ExecContext(ctx, query, true, c.Quality, c.Confidence, responseTime, c.CompletedOn, id)
		if err != nil {
			return fmt.Errorf("failed to complete review: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to complete review: %w", err)
		}
		if affected != 1 {
			return ErrReviewAlreadyDone
		}

		next.ID, err = insertReview(ctx, tx, next)
		return err
	})
	if err != nil {
		return 0, err
	}
	return next.ID, nil
}

// CountReviews counts the reviews of a user by completion state
func (r *ReviewRepository) CountReviews(ctx context.Context, userID int64, done bool) (int, error) {
	query := `
		SELECT COUNT(*) FROM reviews r
		JOIN studies s ON r.study_id = s.id
		WHERE s.user_id = ? AND r.done = ` + r.db.Dialect.BoolValue(done)
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// CountPendingOn counts pending reviews of a user due exactly on date
func (r *ReviewRepository) CountPendingOn(ctx context.Context, userID int64, date string) (int, error) {
	query := `
		SELECT COUNT(*) FROM reviews r
		JOIN studies s ON r.study_id = s.id
		WHERE s.user_id = ? AND r.due_on = ? AND r.done = ` + r.db.Dialect.BoolValue(false)
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending reviews: %w", err)
	}
	return count, nil
}

// CompletedPerDay counts the reviews a user completed on each date between
// from and to inclusive. Dates without completions are absent.
func (r *ReviewRepository) CompletedPerDay(ctx context.Context, userID int64, from, to string) (map[string]int, error) {
	query := `
		SELECT r.completed_on, COUNT(*) FROM reviews r
		JOIN studies s ON r.study_id = s.id
		WHERE s.user_id = ? AND r.done = ` + r.db.Dialect.BoolValue(true) + `
			AND r.completed_on >= ? AND r.completed_on <= ?
		GROUP BY r.completed_on
	`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed reviews: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("failed to scan completed reviews: %w", err)
		}
		counts[day] = n
	}
	return counts, rows.Err()
}
