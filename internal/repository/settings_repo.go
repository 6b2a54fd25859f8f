package repository

import (
	"context"
	"fmt"

	"studyreview/internal/database"
)

// Settings are the per-user review preferences
type Settings struct {
	PreExamMode       bool
	PreExamFactor     float64
	RemindersEnabled  bool
	NotificationEmail string
}

// SettingsRepository reads and writes the preference columns of users
type SettingsRepository struct {
	db database.DBTX
}

func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings retrieves the preferences of a user
func (r *SettingsRepository) GetSettings(ctx context.Context, userID int64) (*Settings, error) {
	s := &Settings{}
	query := `SELECT pre_exam_mode, pre_exam_factor, reminders_enabled, notification_email FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.PreExamMode, &s.PreExamFactor, &s.RemindersEnabled, &s.NotificationEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// SaveSettings updates the preferences of a user
func (r *SettingsRepository) SaveSettings(ctx context.Context, userID int64, s Settings) error {
	query := `
		UPDATE users
		SET pre_exam_mode = ?, pre_exam_factor = ?, reminders_enabled = ?, notification_email = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, s.PreExamMode, s.PreExamFactor, s.RemindersEnabled, s.NotificationEmail, userID)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
