package handlers

import (
	"errors"
	"net/http"

	"studyreview/internal/api"
	"studyreview/internal/repository"
	"studyreview/internal/service"
	"studyreview/internal/validation"
)

// SettingsHandler reads and updates review preferences
type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func toAPISettings(s *repository.Settings) api.Settings {
	return api.Settings{
		PreExamMode:       s.PreExamMode,
		PreExamFactor:     s.PreExamFactor,
		RemindersEnabled:  s.RemindersEnabled,
		NotificationEmail: s.NotificationEmail,
	}
}

// Get returns the current preferences
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	settings, err := h.settingsService.Get(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toAPISettings(settings))
}

// Update changes the fields present in the body and keeps the others
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	current, err := h.settingsService.Get(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading settings", err)
		return
	}

	body := toAPISettings(current)
	if !decodeJSON(w, r, &body) {
		return
	}

	saved, err := h.settingsService.Update(r.Context(), user.ID, repository.Settings{
		PreExamMode:       body.PreExamMode,
		PreExamFactor:     body.PreExamFactor,
		RemindersEnabled:  body.RemindersEnabled,
		NotificationEmail: body.NotificationEmail,
	})
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error saving settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toAPISettings(saved))
}
