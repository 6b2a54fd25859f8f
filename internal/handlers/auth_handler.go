package handlers

import (
	"errors"
	"net/http"

	"studyreview/internal/api"
	"studyreview/internal/security"
	"studyreview/internal/service"
	"studyreview/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and logs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	_, err := h.authService.Register(r.Context(), creds.Name, creds.Email, creds.Password, creds.Confirm)
	var verr validation.ValidationError
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, MsgEmailTaken, "", nil)
		return
	case errors.Is(err, service.ErrPasswordMismatch):
		respondWithError(w, http.StatusBadRequest, MsgPasswordMismatch, "", nil)
		return
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error registering user", err)
		return
	}

	h.startSession(w, r, creds.Email, creds.Password, http.StatusCreated)
}

// Login authenticates a user and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	h.startSession(w, r, creds.Email, creds.Password, http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, email, password string, status int) {
	token, session, _, err := h.authService.Login(r.Context(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondWithError(w, http.StatusUnauthorized, MsgInvalidCredentials, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error logging in", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, token, session.ExpiresAt))
	writeJSON(w, status, api.StatusResponse{Status: api.StatusOK})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r))
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: api.StatusOK})
}
