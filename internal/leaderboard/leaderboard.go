package leaderboard

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"colorrush/internal/domain"
)

// Entry is one display row, scores pre-formatted for rendering
type Entry struct {
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	ScoreDisplay string `json:"scoreDisplay"`
}

// Service serves the display-only leaderboard
type Service interface {
	Top(ctx context.Context) []Entry
}

type service struct {
	entries []domain.LeaderboardEntry
	printer *message.Printer
}

// NewService creates a leaderboard service over a fixed board
func NewService() Service {
	return &service{
		entries: defaultBoard,
		printer: message.NewPrinter(language.English),
	}
}

// Top returns the board in rank order
func (s *service) Top(ctx context.Context) []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{
			Rank:         e.Rank,
			Name:         e.Name,
			Score:        e.Score,
			ScoreDisplay: s.printer.Sprintf("%d", e.Score),
		}
	}
	return out
}

// defaultBoard is the static display board
var defaultBoard = []domain.LeaderboardEntry{
	{Rank: 1, Name: "Player1", Score: 2500},
	{Rank: 2, Name: "Player2", Score: 1800},
	{Rank: 3, Name: "Player3", Score: 1200},
	{Rank: 4, Name: "Player4", Score: 900},
	{Rank: 5, Name: "Player5", Score: 600},
}
