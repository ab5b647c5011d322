package store

import (
	"context"

	"colorrush/internal/domain"
)

// Store is the per-user document service. Documents are keyed by user
// id; collection appends are additive and never remove entries other
// than by cap eviction.
//
// Ordering: GameHistory is oldest first and trimmed from the front
// beyond the store cap; RecentBets is newest first and trimmed from the
// back. Callers are responsible for deduplication before appending.
type Store interface {
	// Get returns the document for userID, or domain.ErrDocumentNotFound.
	Get(ctx context.Context, userID string) (*domain.UserDocument, error)

	// Create stores a new document. Creating an existing document is an
	// overwrite; the caller checks existence first.
	Create(ctx context.Context, doc *domain.UserDocument) error

	// MergeFields overwrites points, stats and display name, leaving the
	// collections untouched.
	MergeFields(ctx context.Context, userID string, points int, stats domain.Stats, displayName string) error

	// AppendHistory adds outcome entries to the history collection.
	AppendHistory(ctx context.Context, userID string, entries []domain.HistoryEntry) error

	// AppendBets adds bet entries (newest first) to the recent-bets
	// collection.
	AppendBets(ctx context.Context, userID string, bets []domain.Bet) error

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}
