package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"studyreview/internal/api"
	"studyreview/internal/service"
	"studyreview/internal/validation"
)

// StudyHandler registers and exports studies
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// Register handles POST /cadastrar
func (h *StudyHandler) Register(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req api.StudyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.studyService.Register(r.Context(), user.ID, req)
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error registering study", err)
		return
	}

	writeJSON(w, http.StatusOK, api.StatusResponse{Status: api.StatusSuccess})
}

// Export streams the user's studies as a CSV attachment
func (h *StudyHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var buf bytes.Buffer
	if err := h.studyService.ExportCSV(r.Context(), user.ID, &buf); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error exporting studies", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="estudos.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
