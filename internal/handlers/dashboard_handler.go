package handlers

import (
	"net/http"

	"studyreview/internal/service"
)

// DashboardHandler serves the progress figures
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Data handles GET /api/dashboard-data
func (h *DashboardHandler) Data(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	d, err := h.dashboardService.Dashboard(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
