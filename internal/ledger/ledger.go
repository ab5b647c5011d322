package ledger

import (
	"context"
	"fmt"
	"time"

	"colorrush/internal/domain"
	"colorrush/internal/event"
	"colorrush/internal/logger"
)

// Ledger owns the session's balance, statistics and bounded
// history/recent-bet sequences, and applies staking and settlement.
//
// Ledger is not safe for concurrent use; the round engine serializes
// every mutation under its own lock. Each mutating operation publishes
// exactly one ledger-changed event carrying a full snapshot, so the
// persistence layer can save reactively instead of polling.
type Ledger struct {
	eventBus   event.Bus
	balance    int
	betAmount  int
	stats      domain.Stats
	history    []domain.HistoryEntry
	recentBets []domain.Bet
}

// New creates a Ledger with default values
func New(eventBus event.Bus) *Ledger {
	l := &Ledger{eventBus: eventBus}
	l.applyDefaults()
	return l
}

func (l *Ledger) applyDefaults() {
	l.balance = domain.DefaultBalance
	l.betAmount = domain.DefaultBetAmount
	l.stats = domain.Stats{}
	l.history = nil
	l.recentBets = nil
}

// Balance returns the current point balance
func (l *Ledger) Balance() int {
	return l.balance
}

// BetAmount returns the stake chosen for the next round
func (l *Ledger) BetAmount() int {
	return l.betAmount
}

// SetBetAmount stores the stake for the next round. The amount is only
// range-checked here; affordability is enforced at staking time.
func (l *Ledger) SetBetAmount(amount int) error {
	if amount <= domain.MinLedgerValue || amount > domain.MaxLedgerValue {
		return fmt.Errorf("%w: bet amount %d out of range", domain.ErrInvalidWager, amount)
	}
	l.betAmount = amount
	return nil
}

// Stats returns a copy of the current statistics
func (l *Ledger) Stats() domain.Stats {
	return l.stats
}

// Stake debits the balance and registers a pending bet for the given
// round. The debit and the bet registration are a single synchronous
// step; nothing mutates on failure.
func (l *Ledger) Stake(ctx context.Context, color domain.Color, amount, round int, placedAt time.Time) (domain.Bet, error) {
	if !domain.ValidColor(color) {
		return domain.Bet{}, fmt.Errorf("%w: %q", domain.ErrInvalidColor, color)
	}
	if amount <= 0 {
		return domain.Bet{}, fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidWager, amount)
	}
	if amount > l.balance {
		return domain.Bet{}, fmt.Errorf("%w: amount %d exceeds balance %d", domain.ErrInvalidWager, amount, l.balance)
	}

	bet := domain.Bet{
		Color:     color,
		Amount:    amount,
		Round:     round,
		Timestamp: placedAt,
	}

	l.balance -= amount
	l.stats.TotalBets = clampValue(l.stats.TotalBets + 1)
	l.prependBet(bet)

	l.notifyChanged(ctx)
	return bet, nil
}

// Settle resolves the pending bet for the given round against the drawn
// color, credits winnings, updates statistics and appends the outcome to
// history. The bet record is mutated in place, exactly once.
func (l *Ledger) Settle(ctx context.Context, round int, drawn domain.Color) (domain.Bet, error) {
	pending := l.findPending(round)
	if pending == nil {
		return domain.Bet{}, fmt.Errorf("%w %d", domain.ErrBetNotFound, round)
	}

	won := pending.Color == drawn
	winnings := 0
	if won {
		winnings = pending.Amount * domain.Multiplier(pending.Color)
	}

	pending.Result = drawn
	pending.Won = won
	pending.Winnings = winnings
	pending.Resolved = true

	l.balance = clampValue(l.balance + winnings)
	if won {
		l.stats.Wins = clampValue(l.stats.Wins + 1)
		l.stats.TotalWon = clampValue(l.stats.TotalWon + winnings)
		if winnings > l.stats.BiggestWin {
			l.stats.BiggestWin = clampValue(winnings)
		}
		l.stats.CurrentStreak = clampValue(l.stats.CurrentStreak + 1)
		if l.stats.CurrentStreak > l.stats.MaxStreak {
			l.stats.MaxStreak = l.stats.CurrentStreak
		}
	} else {
		l.stats.CurrentStreak = 0
	}

	l.appendHistory(domain.HistoryEntry{Round: round, Color: drawn})

	l.notifyChanged(ctx)
	return *pending, nil
}

// RecordOutcome appends a drawn color to history for a round with no
// stake. Used when the countdown expires without a bet.
func (l *Ledger) RecordOutcome(ctx context.Context, round int, drawn domain.Color) {
	l.appendHistory(domain.HistoryEntry{Round: round, Color: drawn})
	l.notifyChanged(ctx)
}

// Hydrate replaces balance, statistics, history and recent bets
// wholesale from a validated snapshot. It never merges; merging belongs
// to the persistence layer.
func (l *Ledger) Hydrate(ctx context.Context, snap domain.Snapshot) {
	l.balance = clampValue(snap.Balance)
	l.stats = snap.Stats

	l.history = append(l.history[:0:0], snap.History...)
	if len(l.history) > domain.HistoryDisplayCap {
		l.history = l.history[len(l.history)-domain.HistoryDisplayCap:]
	}

	l.recentBets = append(l.recentBets[:0:0], snap.RecentBets...)
	if len(l.recentBets) > domain.RecentBetsDisplayCap {
		l.recentBets = l.recentBets[:domain.RecentBetsDisplayCap]
	}

	l.notifyChanged(ctx)
}

// Reset restores the ledger to default values in place, with no remote
// interaction. Used on sign-out.
func (l *Ledger) Reset(ctx context.Context) {
	l.applyDefaults()
	l.notifyChanged(ctx)
}

// Snapshot returns a deep copy of the ledger's persisted fields
func (l *Ledger) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Balance:    l.balance,
		Stats:      l.stats,
		History:    append([]domain.HistoryEntry{}, l.history...),
		RecentBets: append([]domain.Bet{}, l.recentBets...),
	}
}

// findPending returns the unresolved bet for the given round, or nil
func (l *Ledger) findPending(round int) *domain.Bet {
	for i := range l.recentBets {
		if l.recentBets[i].Round == round && !l.recentBets[i].Resolved {
			return &l.recentBets[i]
		}
	}
	return nil
}

// appendHistory appends an outcome, evicting the oldest entry beyond the
// display cap. History is ordered oldest first.
func (l *Ledger) appendHistory(entry domain.HistoryEntry) {
	l.history = append(l.history, entry)
	if len(l.history) > domain.HistoryDisplayCap {
		l.history = l.history[len(l.history)-domain.HistoryDisplayCap:]
	}
}

// prependBet inserts a bet at the front (newest first), evicting the
// oldest beyond the display cap.
func (l *Ledger) prependBet(bet domain.Bet) {
	l.recentBets = append([]domain.Bet{bet}, l.recentBets...)
	if len(l.recentBets) > domain.RecentBetsDisplayCap {
		l.recentBets = l.recentBets[:domain.RecentBetsDisplayCap]
	}
}

// notifyChanged publishes the single change notification for a mutation.
// Publish failures are logged and never block gameplay.
func (l *Ledger) notifyChanged(ctx context.Context) {
	if l.eventBus == nil {
		return
	}
	if err := l.eventBus.Publish(ctx, event.NewLedgerChangedEvent(l.Snapshot())); err != nil {
		logger.FromContext(ctx).Error("Failed to publish ledger change", "error", err)
	}
}

func clampValue(v int) int {
	if v < domain.MinLedgerValue {
		return domain.MinLedgerValue
	}
	if v > domain.MaxLedgerValue {
		return domain.MaxLedgerValue
	}
	return v
}
