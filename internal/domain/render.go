package domain

// RenderState is the single payload handed to the display layer on every
// state change. It carries everything the original UI shows: balance,
// statistics, the active round, outcome history and recent bets.
type RenderState struct {
	Balance        int     `json:"balance"`
	BalanceDisplay string  `json:"balanceDisplay"`
	Stats          Stats   `json:"stats"`
	WinRatePercent int     `json:"winRatePercent"`
	Round          Round   `json:"round"`
	History        []Color `json:"history"`
	RecentBets     []Bet   `json:"recentBets"`
	LastResult     *RoundResult `json:"lastResult,omitempty"`
	SignedIn       bool    `json:"signedIn"`
	DisplayName    string  `json:"displayName,omitempty"`
}

// LeaderboardEntry is one static leaderboard row (display only)
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
