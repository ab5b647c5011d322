package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorrush/internal/clock"
	"colorrush/internal/domain"
	"colorrush/internal/event"
	"colorrush/internal/logger"
	"colorrush/internal/store"
)

// flakyStore fails Get a configured number of times before delegating
type flakyStore struct {
	store.Store
	failures int
	getCalls int
}

func (f *flakyStore) Get(ctx context.Context, userID string) (*domain.UserDocument, error) {
	f.getCalls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection refused")
	}
	return f.Store.Get(ctx, userID)
}

func newTestReconciler(t *testing.T) (*Reconciler, *store.MemoryStore, *clock.Fake) {
	t.Helper()
	mem := store.NewMemoryStore()
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewReconciler(mem, clk), mem, clk
}

func TestLoadCreatesDefaultDocumentForNewUser(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	snap, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSnapshot(), snap)

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBalance, doc.Points)
	assert.Empty(t, doc.History)
	assert.Empty(t, doc.RecentBets)
}

func TestLoadSanitizesMalformedDocument(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	require.NoError(t, mem.Create(ctx, &domain.UserDocument{
		UserID: "u1",
		Points: 5_000_000,
		Stats:  domain.Stats{Wins: -3, TotalBets: 12},
		History: []domain.HistoryEntry{
			{Round: 1, Color: domain.ColorRed},
			{Round: 2, Color: domain.Color("mauve")},
			{Round: -5, Color: domain.ColorBlue},
		},
		RecentBets: []domain.Bet{
			{Color: domain.ColorBlue, Amount: 50, Round: 1, Timestamp: time.Unix(1, 0)},
			{Color: domain.Color("mauve"), Amount: 50, Round: 2, Timestamp: time.Unix(2, 0)},
			{Color: domain.ColorRed, Amount: 0, Round: 3, Timestamp: time.Unix(3, 0)},
		},
	}))

	snap, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, domain.MaxLedgerValue, snap.Balance)
	assert.Equal(t, 0, snap.Stats.Wins, "negative stat clamped to zero")
	assert.Equal(t, 12, snap.Stats.TotalBets)
	require.Len(t, snap.History, 1, "unknown colors and bad rounds dropped")
	assert.Equal(t, domain.ColorRed, snap.History[0].Color)
	require.Len(t, snap.RecentBets, 1, "malformed bets dropped")
	assert.Equal(t, domain.ColorBlue, snap.RecentBets[0].Color)
}

func TestLoadRetriesOnceThenSucceeds(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Create(ctx, &domain.UserDocument{UserID: "u1", Points: 777}))

	flaky := &flakyStore{Store: mem, failures: 1}
	r := NewReconciler(flaky, clock.New())
	r.loadBackoff = 0

	snap, err := r.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 777, snap.Balance)
	assert.Equal(t, 2, flaky.getCalls)
}

func TestLoadFallsBackToDefaultsAfterRetry(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{Store: store.NewMemoryStore(), failures: 2}
	r := NewReconciler(flaky, clock.New())
	r.loadBackoff = 0

	snap, err := r.Load(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, domain.DefaultSnapshot(), snap, "session stays usable on defaults")
	assert.Equal(t, 2, flaky.getCalls, "exactly one retry")
}

func TestSaveMergesFieldsAndAppendsNovelEntries(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	_, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	snap := domain.Snapshot{
		Balance: 1100,
		Stats:   domain.Stats{Wins: 1, TotalBets: 1, TotalWon: 200},
		History: []domain.HistoryEntry{{Round: 1, Color: domain.ColorRed}},
		RecentBets: []domain.Bet{
			{Color: domain.ColorRed, Amount: 100, Round: 1, Timestamp: time.Unix(10, 0), Resolved: true, Result: domain.ColorRed, Won: true, Winnings: 200},
		},
	}
	require.NoError(t, r.Save(ctx, "u1", snap))

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1100, doc.Points)
	assert.Equal(t, 1, doc.Stats.Wins)
	require.Len(t, doc.History, 1)
	require.Len(t, doc.RecentBets, 1)
}

func TestSaveIsIdempotentAcrossRepeats(t *testing.T) {
	ctx := context.Background()
	r, mem, clk := newTestReconciler(t)

	_, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	snap := domain.Snapshot{
		Balance: 900,
		History: []domain.HistoryEntry{{Round: 1, Color: domain.ColorRed}},
		RecentBets: []domain.Bet{
			{Color: domain.ColorRed, Amount: 100, Round: 1, Timestamp: time.Unix(10, 0)},
		},
	}

	require.NoError(t, r.Save(ctx, "u1", snap))
	clk.Advance(2 * SaveInterval)
	require.NoError(t, r.Save(ctx, "u1", snap))

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, doc.History, 1, "repeated save adds no duplicate history")
	assert.Len(t, doc.RecentBets, 1, "repeated save adds no duplicate bets")
}

func TestSaveDistinguishesRepeatedOutcomesByRound(t *testing.T) {
	ctx := context.Background()
	r, mem, clk := newTestReconciler(t)

	_, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, r.Save(ctx, "u1", domain.Snapshot{
		Balance: 1000,
		History: []domain.HistoryEntry{{Round: 1, Color: domain.ColorRed}},
	}))
	clk.Advance(2 * SaveInterval)

	// Red again in the next round is a genuinely new outcome.
	require.NoError(t, r.Save(ctx, "u1", domain.Snapshot{
		Balance: 1000,
		History: []domain.HistoryEntry{
			{Round: 1, Color: domain.ColorRed},
			{Round: 2, Color: domain.ColorRed},
		},
	}))

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, doc.History, 2)
}

func TestSaveRateLimitDropsExcess(t *testing.T) {
	ctx := context.Background()
	r, mem, clk := newTestReconciler(t)

	_, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	first := domain.Snapshot{Balance: 900}
	second := domain.Snapshot{Balance: 800}

	require.NoError(t, r.Save(ctx, "u1", first))
	assert.ErrorIs(t, r.Save(ctx, "u1", second), domain.ErrRateLimited)

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 900, doc.Points, "dropped save leaves remote unchanged")

	clk.Advance(SaveInterval)
	require.NoError(t, r.Save(ctx, "u1", second))
}

func TestSaveCapsNovelSuffix(t *testing.T) {
	ctx := context.Background()
	r, mem, clk := newTestReconciler(t)

	_, err := r.Load(ctx, "u1")
	require.NoError(t, err)

	var history []domain.HistoryEntry
	for i := 1; i <= 20; i++ {
		history = append(history, domain.HistoryEntry{Round: i, Color: domain.ColorBlue})
	}
	var bets []domain.Bet
	for i := 20; i >= 1; i-- {
		bets = append(bets, domain.Bet{Color: domain.ColorBlue, Amount: 1, Round: i, Timestamp: time.Unix(int64(i), 0)})
	}

	clk.Advance(SaveInterval)
	require.NoError(t, r.Save(ctx, "u1", domain.Snapshot{Balance: 1, History: history, RecentBets: bets}))

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, doc.History, domain.HistorySaveCap)
	assert.Equal(t, 11, doc.History[0].Round, "newest history suffix kept")
	assert.Len(t, doc.RecentBets, domain.RecentBetsSaveCap)
	assert.Equal(t, 20, doc.RecentBets[0].Round, "newest bets kept")
}

func TestSaveCreatesMissingDocument(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	require.NoError(t, r.Save(ctx, "u1", domain.Snapshot{Balance: 500}))

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 500, doc.Points)
}

func TestLedgerChangeTriggersSaveForSignedInUser(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	bus := event.NewMemoryBus()
	r.Register(bus)

	require.NoError(t, bus.Publish(ctx, event.NewSessionSignedInEvent("u1", "Tester")))
	require.NoError(t, bus.Publish(ctx, event.NewLedgerChangedEvent(domain.Snapshot{Balance: 650})))

	require.NoError(t, r.Shutdown(ctx))

	doc, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 650, doc.Points)
	assert.Equal(t, "Tester", doc.DisplayName)
}

func TestLedgerChangeCarriesRequestScopedContext(t *testing.T) {
	r, mem, _ := newTestReconciler(t)

	bus := event.NewMemoryBus()
	r.Register(bus)

	// The publishing context may or may not carry a request ID; the
	// background save must succeed either way.
	scoped := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	require.NoError(t, bus.Publish(scoped, event.NewSessionSignedInEvent("u1", "Tester")))
	require.NoError(t, bus.Publish(scoped, event.NewLedgerChangedEvent(domain.Snapshot{Balance: 720})))
	require.NoError(t, r.Shutdown(context.Background()))

	doc, err := mem.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 720, doc.Points)
}

func TestLedgerChangeWithoutUserIsIgnored(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	bus := event.NewMemoryBus()
	r.Register(bus)

	require.NoError(t, bus.Publish(ctx, event.NewLedgerChangedEvent(domain.Snapshot{Balance: 650})))
	require.NoError(t, r.Shutdown(ctx))

	_, err := mem.Get(ctx, "anyone")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestSignOutClearsTrackedUser(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestReconciler(t)

	bus := event.NewMemoryBus()
	r.Register(bus)

	require.NoError(t, bus.Publish(ctx, event.NewSessionSignedInEvent("u1", "Tester")))
	require.NoError(t, bus.Publish(ctx, event.NewSessionSignedOutEvent("u1")))
	require.NoError(t, bus.Publish(ctx, event.NewLedgerChangedEvent(domain.Snapshot{Balance: 650})))
	require.NoError(t, r.Shutdown(ctx))

	_, err := mem.Get(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
