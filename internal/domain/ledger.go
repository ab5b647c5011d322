package domain

import "time"

// Bounds applied to every persisted numeric field
const (
	MinLedgerValue = 0
	MaxLedgerValue = 999_999
)

// Local display caps
const (
	HistoryDisplayCap    = 10
	RecentBetsDisplayCap = 10
)

// Persistence-boundary caps
const (
	HistoryStoreCap    = 100
	RecentBetsStoreCap = 50
	HistorySaveCap     = 10
	RecentBetsSaveCap  = 5
)

// Default ledger values for a fresh or reset session
const (
	DefaultBalance   = 1000
	DefaultBetAmount = 100
)

// Stats holds per-user betting statistics. All fields are monotonically
// non-decreasing except CurrentStreak, which resets to zero on a loss.
type Stats struct {
	Wins          int `json:"wins"`
	TotalBets     int `json:"totalBets"`
	TotalWon      int `json:"totalWon"`
	BiggestWin    int `json:"biggestWin"`
	CurrentStreak int `json:"currentStreak"`
	MaxStreak     int `json:"maxStreak"`
}

// HistoryEntry is one drawn outcome. The round number disambiguates two
// genuinely repeated outcomes from a duplicate save of the same one.
type HistoryEntry struct {
	Round int   `json:"round"`
	Color Color `json:"color"`
}

// Bet is a single wager. Result, Won and Winnings are set exactly once,
// when the round resolves; until then the bet is pending.
type Bet struct {
	Color     Color     `json:"color"`
	Amount    int       `json:"amount"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
	Result    Color     `json:"result,omitempty"`
	Won       bool      `json:"won"`
	Winnings  int       `json:"winnings"`
	Resolved  bool      `json:"resolved"`
}

// Snapshot is a complete point-in-time copy of the ledger's persisted fields.
// History and RecentBets slices are owned by the snapshot; producers must
// copy before publishing.
type Snapshot struct {
	Balance    int            `json:"balance"`
	Stats      Stats          `json:"stats"`
	History    []HistoryEntry `json:"history"`
	RecentBets []Bet          `json:"recentBets"`
}

// DefaultSnapshot returns the ledger defaults used at session start, on
// sign-out, and when the document store is unreachable.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Balance:    DefaultBalance,
		Stats:      Stats{},
		History:    []HistoryEntry{},
		RecentBets: []Bet{},
	}
}

// UserDocument is the remote per-user record as stored by the document
// service, keyed by user id.
type UserDocument struct {
	UserID      string         `json:"userId"`
	DisplayName string         `json:"displayName,omitempty"`
	Points      int            `json:"points"`
	Stats       Stats          `json:"stats"`
	History     []HistoryEntry `json:"gameHistory"`
	RecentBets  []Bet          `json:"recentBets"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}
