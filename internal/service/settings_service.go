package service

import (
	"context"
	"strings"

	"studyreview/internal/repository"
	"studyreview/internal/scheduler"
	"studyreview/internal/validation"
)

// SettingsService reads and updates review preferences
type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the preferences of a user
func (s *SettingsService) Get(ctx context.Context, userID int64) (*repository.Settings, error) {
	return s.repo.GetSettings(ctx, userID)
}

// Update stores new preferences. The pre-exam factor is clamped to its
// allowed range and an empty notification address falls back to the login
// email at send time.
func (s *SettingsService) Update(ctx context.Context, userID int64, settings repository.Settings) (*repository.Settings, error) {
	settings.PreExamFactor = scheduler.ClampPreExamFactor(settings.PreExamFactor)
	settings.NotificationEmail = strings.TrimSpace(settings.NotificationEmail)
	if settings.NotificationEmail != "" {
		if err := validation.ValidateEmail(settings.NotificationEmail); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveSettings(ctx, userID, settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
