package handlers

import (
	"net/http"
	"sync"

	"studyreview/internal/api"
)

// Startup steps reported by the health endpoint
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
)

// StartupStatus tracks the initialization progress
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	steps    []string
	complete map[string]bool
}

// NewStartupStatus creates a status with the standard startup steps pending
func NewStartupStatus() *StartupStatus {
	return &StartupStatus{
		current:  "Initializing...",
		steps:    []string{StepDatabase, StepMigrations, StepServices},
		complete: make(map[string]bool),
	}
}

// SetCurrentStep updates the current initialization step
func (s *StartupStatus) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed
func (s *StartupStatus) CompleteStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete[step] = true
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
}

// IsReady returns whether the server is fully initialized
func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

type startupResponse struct {
	Status   string `json:"status"`
	Current  string `json:"current"`
	Progress int    `json:"progress"`
}

// Health answers {status:"ok"} once the server is ready and 503 with the
// startup progress before that
func (s *StartupStatus) Health(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ready {
		writeJSON(w, http.StatusOK, api.StatusResponse{Status: api.StatusOK})
		return
	}

	completed := 0
	for _, step := range s.steps {
		if s.complete[step] {
			completed++
		}
	}
	writeJSON(w, http.StatusServiceUnavailable, startupResponse{
		Status:   "starting",
		Current:  s.current,
		Progress: completed * 100 / len(s.steps),
	})
}
