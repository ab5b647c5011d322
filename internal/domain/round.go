package domain

// Phase represents the current phase of the active round
type Phase string

const (
	PhaseWaiting   Phase = "Waiting"
	PhaseBetting   Phase = "Betting"
	PhaseResolving Phase = "Resolving"
	PhaseResolved  Phase = "Resolved"
)

// Round describes the single active round. Number increments monotonically
// each time a new round begins.
type Round struct {
	Number           int   `json:"number"`
	Phase            Phase `json:"phase"`
	CountdownSeconds int   `json:"countdownSeconds"`
	SelectedColor    Color `json:"selectedColor,omitempty"`
}

// RoundResult is the outcome of a resolved round
type RoundResult struct {
	Round     int   `json:"round"`
	Drawn     Color `json:"drawn"`
	Staked    bool  `json:"staked"`
	Won       bool  `json:"won"`
	Winnings  int   `json:"winnings"`
	Celebrate bool  `json:"celebrate"`
}
