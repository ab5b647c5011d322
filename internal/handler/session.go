package handler

import (
	"net/http"

	"colorrush/internal/session"
)

// SessionHandler exposes sign-in and sign-out over HTTP
type SessionHandler struct {
	bridge *session.Bridge
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(bridge *session.Bridge) *SessionHandler {
	return &SessionHandler{bridge: bridge}
}

type SignInRequest struct {
	UserID      string `json:"userId" validate:"max=128"`
	DisplayName string `json:"displayName" validate:"max=64"`
}

type SignInResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// HandleSignIn resolves the identity and hydrates the game state
func (h *SessionHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Sign in"); err != nil {
		return
	}

	id, err := h.bridge.SignIn(r.Context(), req.UserID, req.DisplayName)
	if err != nil {
		respondServiceError(w, r, "Sign in", err)
		return
	}

	respondJSON(w, http.StatusOK, SignInResponse{
		UserID:      id.UserID,
		DisplayName: id.DisplayName,
	})
}

// HandleSignOut resets the session to defaults
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.bridge.SignOut(r.Context()); err != nil {
		respondServiceError(w, r, "Sign out", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "signed out"})
}
