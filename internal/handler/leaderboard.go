package handler

import (
	"net/http"

	"colorrush/internal/leaderboard"
)

// HandleGetLeaderboard returns the display-only leaderboard
func HandleGetLeaderboard(svc leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Top(r.Context()))
	}
}
