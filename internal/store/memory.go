package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"colorrush/internal/domain"
)

// MemoryStore is the in-memory document service used in local-only mode
// and in tests. Semantics match the postgres store; nothing survives a
// restart.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*domain.UserDocument
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*domain.UserDocument)}
}

// Get returns a copy of the stored document
func (s *MemoryStore) Get(ctx context.Context, userID string) (*domain.UserDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
	}
	copied := copyDocument(doc)
	return &copied, nil
}

// Create stores the document
func (s *MemoryStore) Create(ctx context.Context, doc *domain.UserDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := copyDocument(doc)
	now := time.Now()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	s.docs[doc.UserID] = &copied
	return nil
}

// MergeFields overwrites the scalar fields of an existing document
func (s *MemoryStore) MergeFields(ctx context.Context, userID string, points int, stats domain.Stats, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
	}
	doc.Points = points
	doc.Stats = stats
	if displayName != "" {
		doc.DisplayName = displayName
	}
	doc.UpdatedAt = time.Now()
	return nil
}

// AppendHistory appends entries, evicting the oldest beyond the store cap
func (s *MemoryStore) AppendHistory(ctx context.Context, userID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
	}
	doc.History = append(doc.History, entries...)
	if len(doc.History) > domain.HistoryStoreCap {
		doc.History = doc.History[len(doc.History)-domain.HistoryStoreCap:]
	}
	doc.UpdatedAt = time.Now()
	return nil
}

// AppendBets prepends bets (newest first), trimming beyond the store cap
func (s *MemoryStore) AppendBets(ctx context.Context, userID string, bets []domain.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, userID)
	}
	doc.RecentBets = append(append([]domain.Bet{}, bets...), doc.RecentBets...)
	if len(doc.RecentBets) > domain.RecentBetsStoreCap {
		doc.RecentBets = doc.RecentBets[:domain.RecentBetsStoreCap]
	}
	doc.UpdatedAt = time.Now()
	return nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func copyDocument(doc *domain.UserDocument) domain.UserDocument {
	copied := *doc
	copied.History = append([]domain.HistoryEntry{}, doc.History...)
	copied.RecentBets = append([]domain.Bet{}, doc.RecentBets...)
	return copied
}
