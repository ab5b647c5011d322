package persist

import (
	"context"

	"colorrush/internal/domain"
	"colorrush/internal/logger"
)

// sanitizeDocument validates and clamps every field of a remote document
// before it reaches the ledger. Malformed or out-of-range fields are
// silently replaced with defaults rather than propagated.
func sanitizeDocument(ctx context.Context, doc *domain.UserDocument) domain.Snapshot {
	dropped := 0

	snap := domain.Snapshot{
		Balance: clampInt(doc.Points),
		Stats: domain.Stats{
			Wins:          clampInt(doc.Stats.Wins),
			TotalBets:     clampInt(doc.Stats.TotalBets),
			TotalWon:      clampInt(doc.Stats.TotalWon),
			BiggestWin:    clampInt(doc.Stats.BiggestWin),
			CurrentStreak: clampInt(doc.Stats.CurrentStreak),
			MaxStreak:     clampInt(doc.Stats.MaxStreak),
		},
		History:    make([]domain.HistoryEntry, 0, len(doc.History)),
		RecentBets: make([]domain.Bet, 0, len(doc.RecentBets)),
	}

	for _, entry := range doc.History {
		if !domain.ValidColor(entry.Color) || entry.Round < 0 {
			dropped++
			continue
		}
		snap.History = append(snap.History, entry)
	}
	if len(snap.History) > domain.HistoryStoreCap {
		snap.History = snap.History[len(snap.History)-domain.HistoryStoreCap:]
	}

	for _, bet := range doc.RecentBets {
		if !wellFormedBet(bet) {
			dropped++
			continue
		}
		snap.RecentBets = append(snap.RecentBets, bet)
	}
	if len(snap.RecentBets) > domain.RecentBetsStoreCap {
		snap.RecentBets = snap.RecentBets[:domain.RecentBetsStoreCap]
	}

	if dropped > 0 {
		logger.FromContext(ctx).Warn(LogMsgFieldsSanitized, "userId", doc.UserID, "dropped", dropped)
	}
	return snap
}

func wellFormedBet(bet domain.Bet) bool {
	if !domain.ValidColor(bet.Color) {
		return false
	}
	if bet.Amount <= 0 || bet.Amount > domain.MaxLedgerValue {
		return false
	}
	if bet.Round < 0 {
		return false
	}
	if bet.Resolved && !domain.ValidColor(bet.Result) {
		return false
	}
	return true
}

// historyKey identifies a history entry for merge deduplication. The
// round number distinguishes two genuinely repeated outcomes from a
// duplicate save of the same one.
type historyKey struct {
	Round int
	Color domain.Color
}

// betKey identifies a bet for merge deduplication
type betKey struct {
	Round     int
	Timestamp int64
}

// novelHistory returns the local entries absent from the remote
// collection, order preserved, capped to the newest HistorySaveCap.
func novelHistory(local, remote []domain.HistoryEntry) []domain.HistoryEntry {
	seen := make(map[historyKey]struct{}, len(remote))
	for _, entry := range remote {
		seen[historyKey{entry.Round, entry.Color}] = struct{}{}
	}

	var novel []domain.HistoryEntry
	for _, entry := range local {
		if _, ok := seen[historyKey{entry.Round, entry.Color}]; ok {
			continue
		}
		novel = append(novel, entry)
	}
	if len(novel) > domain.HistorySaveCap {
		novel = novel[len(novel)-domain.HistorySaveCap:]
	}
	return novel
}

// novelBets returns the local bets absent from the remote collection,
// newest first, capped to RecentBetsSaveCap.
func novelBets(local, remote []domain.Bet) []domain.Bet {
	seen := make(map[betKey]struct{}, len(remote))
	for _, bet := range remote {
		seen[betKey{bet.Round, bet.Timestamp.UnixNano()}] = struct{}{}
	}

	var novel []domain.Bet
	for _, bet := range local {
		if _, ok := seen[betKey{bet.Round, bet.Timestamp.UnixNano()}]; ok {
			continue
		}
		novel = append(novel, bet)
	}
	if len(novel) > domain.RecentBetsSaveCap {
		novel = novel[:domain.RecentBetsSaveCap]
	}
	return novel
}

func clampInt(v int) int {
	if v < domain.MinLedgerValue {
		return domain.MinLedgerValue
	}
	if v > domain.MaxLedgerValue {
		return domain.MaxLedgerValue
	}
	return v
}
