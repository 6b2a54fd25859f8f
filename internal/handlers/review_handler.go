package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"studyreview/internal/api"
	"studyreview/internal/service"
)

// ReviewHandler serves the due-review listing and the grading endpoint
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListDue returns the reviews due today or earlier
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	list, err := h.reviewService.DueReviews(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing due reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// gradeBody mirrors api.GradeRequest with optional fields so that a missing
// quality or confidence can be told apart from zero
type gradeBody struct {
	Quality      *int `json:"quality"`
	Confidence   *int `json:"nivel_confianca"`
	ResponseTime *int `json:"tempo_resposta"`
	Interacted   bool `json:"interagiu"`
}

var gradeErrors = []struct {
	err    error
	status int
	msg    string
}{
	{service.ErrInvalidQuality, http.StatusBadRequest, MsgInvalidQuality},
	{service.ErrInvalidConfidence, http.StatusBadRequest, MsgInvalidConfidence},
	{service.ErrInteractionRequired, http.StatusBadRequest, MsgInteractionRequired},
	{service.ErrReviewNotFound, http.StatusNotFound, MsgReviewNotFound},
	{service.ErrReviewDone, http.StatusConflict, MsgReviewDone},
}

// Grade handles POST /marcar/{reviewId}
func (h *ReviewHandler) Grade(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	reviewID, err := strconv.ParseInt(r.PathValue("reviewId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusNotFound, MsgReviewNotFound, "", nil)
		return
	}

	var body gradeBody
	if !decodeJSON(w, r, &body) {
		return
	}

	res, err := h.reviewService.Grade(r.Context(), user.ID, reviewID, service.Grade{
		Quality:      body.Quality,
		Confidence:   body.Confidence,
		ResponseTime: body.ResponseTime,
	})
	if err != nil {
		for _, ge := range gradeErrors {
			if errors.Is(err, ge.err) {
				respondWithError(w, ge.status, ge.msg, "", nil)
				return
			}
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error grading review", err)
		return
	}

	writeJSON(w, http.StatusOK, api.GradeResponse{
		Status:       api.StatusOK,
		NextReview:   res.NextReview,
		IntervalDays: res.IntervalDays,
		EaseFactor:   res.EaseFactor,
	})
}
