package handler

import (
	"net/http"

	"colorrush/internal/domain"
	"colorrush/internal/metrics"
	"colorrush/internal/round"
)

// GameHandler exposes the round engine over HTTP
type GameHandler struct {
	engine *round.Engine
}

// NewGameHandler creates a new game handler
func NewGameHandler(engine *round.Engine) *GameHandler {
	return &GameHandler{engine: engine}
}

// HandleStartGame moves the machine out of the waiting phase
func (h *GameHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.StartGame(r.Context()); err != nil {
		respondServiceError(w, r, "Start game", err)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.State(r.Context()))
}

type SelectColorRequest struct {
	Color string `json:"color" validate:"required,color"`
}

// HandleSelectColor records the predicted color for the current round
func (h *GameHandler) HandleSelectColor(w http.ResponseWriter, r *http.Request) {
	var req SelectColorRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Select color"); err != nil {
		return
	}

	if err := h.engine.SelectColor(r.Context(), domain.Color(req.Color)); err != nil {
		respondServiceError(w, r, "Select color", err)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.State(r.Context()))
}

type StakeRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// HandleStake places the wager and locks the round
func (h *GameHandler) HandleStake(w http.ResponseWriter, r *http.Request) {
	var req StakeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stake"); err != nil {
		return
	}

	state := h.engine.State(r.Context())
	if err := h.engine.Stake(r.Context(), req.Amount); err != nil {
		respondServiceError(w, r, "Stake", err)
		return
	}

	metrics.StakesPlaced.WithLabelValues(string(state.Round.SelectedColor)).Inc()
	metrics.PointsStaked.Add(float64(req.Amount))

	respondJSON(w, http.StatusOK, h.engine.State(r.Context()))
}

// HandleAcknowledge skips the result display and starts the next round
func (h *GameHandler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.AcknowledgeResult(r.Context()); err != nil {
		respondServiceError(w, r, "Acknowledge result", err)
		return
	}
	respondJSON(w, http.StatusOK, h.engine.State(r.Context()))
}

// HandleGetState returns the full display state
func (h *GameHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.State(r.Context()))
}
