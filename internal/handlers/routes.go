package handlers

import "net/http"

// Handlers groups everything NewRouter mounts
type Handlers struct {
	Middleware *Middleware
	Startup    *StartupStatus
	Auth       *AuthHandler
	Reviews    *ReviewHandler
	Studies    *StudyHandler
	Settings   *SettingsHandler
	Dashboard  *DashboardHandler
}

// NewRouter registers every route and wraps the mux with request logging
func NewRouter(h Handlers) http.Handler {
	mw := h.Middleware
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/health", h.Startup.Health)
	mux.HandleFunc("POST /api/register", mw.RateLimit(h.Auth.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(h.Auth.Login))
	mux.HandleFunc("POST /api/logout", h.Auth.Logout)

	// Protected routes
	mux.HandleFunc("GET /api/reviews", mw.RequireAuth(h.Reviews.ListDue))
	mux.HandleFunc("POST /marcar/{reviewId}", mw.RequireAuth(mw.RateLimit(h.Reviews.Grade)))
	mux.HandleFunc("POST /cadastrar", mw.RequireAuth(h.Studies.Register))
	mux.HandleFunc("GET /export.csv", mw.RequireAuth(h.Studies.Export))
	mux.HandleFunc("GET /api/settings", mw.RequireAuth(h.Settings.Get))
	mux.HandleFunc("POST /api/settings", mw.RequireAuth(h.Settings.Update))
	mux.HandleFunc("GET /api/dashboard-data", mw.RequireAuth(h.Dashboard.Data))

	return Logging(mux)
}
