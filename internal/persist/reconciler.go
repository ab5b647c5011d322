package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"colorrush/internal/clock"
	"colorrush/internal/domain"
	"colorrush/internal/event"
	"colorrush/internal/logger"
	"colorrush/internal/metrics"
	"colorrush/internal/store"
)

// Reconciler bridges ledger snapshots and the per-user document store.
// It subscribes to ledger change notifications and saves reactively,
// rate-limited and fire-and-forget; persistence failures never block or
// corrupt local gameplay, which stays authoritative between saves.
type Reconciler struct {
	store store.Store
	clk   clock.Clock

	mu          sync.Mutex
	userID      string
	displayName string
	lastSaveAt  time.Time

	saveInterval time.Duration
	loadBackoff  time.Duration
	wg           sync.WaitGroup
}

// NewReconciler creates a reconciler over the given store
func NewReconciler(st store.Store, clk clock.Clock) *Reconciler {
	return &Reconciler{
		store:        st,
		clk:          clk,
		saveInterval: SaveInterval,
		loadBackoff:  LoadRetryBackoff,
	}
}

// Register subscribes the reconciler to ledger and session events
func (r *Reconciler) Register(bus event.Bus) {
	bus.Subscribe(event.LedgerChanged, r.handleLedgerChanged)
	bus.Subscribe(event.SessionSignedIn, r.handleSignedIn)
	bus.Subscribe(event.SessionSignedOut, r.handleSignedOut)
}

// Load fetches and sanitizes the user's document. A missing document is
// created with defaults. A failed fetch is retried once after a fixed
// backoff; if the retry also fails, defaults are returned together with
// the error so the session stays usable.
func (r *Reconciler) Load(ctx context.Context, userID string) (domain.Snapshot, error) {
	log := logger.FromContext(ctx)

	doc, err := r.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		log.Warn(LogMsgLoadRetrying, "userId", userID, "error", err)
		r.sleep(ctx, r.loadBackoff)
		doc, err = r.store.Get(ctx, userID)
	}

	switch {
	case err == nil:
		return sanitizeDocument(ctx, doc), nil

	case errors.Is(err, domain.ErrDocumentNotFound):
		defaults := domain.DefaultSnapshot()
		if createErr := r.store.Create(ctx, defaultDocument(userID)); createErr != nil {
			log.Error(LogMsgLoadFailed, "userId", userID, "error", createErr)
			metrics.LoadFailures.Inc()
			return defaults, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, createErr)
		}
		log.Info(LogMsgDocumentCreated, "userId", userID)
		return defaults, nil

	default:
		log.Error(LogMsgLoadFailed, "userId", userID, "error", err)
		metrics.LoadFailures.Inc()
		return domain.DefaultSnapshot(), fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
}

// Save writes a snapshot for the user. Balance and statistics overwrite
// the remote fields; history and recent bets are merged additively so
// interleaved sessions neither lose nor duplicate entries. Saves inside
// the rate-limit window return domain.ErrRateLimited and are dropped.
func (r *Reconciler) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	if !r.acquireSaveSlot() {
		metrics.SavesDropped.WithLabelValues(metrics.DropReasonRateLimited).Inc()
		return domain.ErrRateLimited
	}

	r.mu.Lock()
	displayName := r.displayName
	r.mu.Unlock()

	doc, err := r.store.Get(ctx, userID)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		if err := r.store.Create(ctx, snapshotDocument(userID, displayName, snap)); err != nil {
			metrics.SavesDropped.WithLabelValues(metrics.DropReasonStoreError).Inc()
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		metrics.SavesPersisted.Inc()
		return nil
	}
	if err != nil {
		metrics.SavesDropped.WithLabelValues(metrics.DropReasonStoreError).Inc()
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := r.store.MergeFields(ctx, userID, snap.Balance, snap.Stats, displayName); err != nil {
		metrics.SavesDropped.WithLabelValues(metrics.DropReasonStoreError).Inc()
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if novel := novelHistory(snap.History, doc.History); len(novel) > 0 {
		if err := r.store.AppendHistory(ctx, userID, novel); err != nil {
			metrics.SavesDropped.WithLabelValues(metrics.DropReasonStoreError).Inc()
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	if novel := novelBets(snap.RecentBets, doc.RecentBets); len(novel) > 0 {
		if err := r.store.AppendBets(ctx, userID, novel); err != nil {
			metrics.SavesDropped.WithLabelValues(metrics.DropReasonStoreError).Inc()
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	metrics.SavesPersisted.Inc()
	return nil
}

// Shutdown waits for in-flight saves to finish
func (r *Reconciler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleLedgerChanged fires a save for the signed-in user. The handler
// runs on the game engine's timeline, so the store I/O is pushed to a
// goroutine; failures are logged and dropped, never retried, since the
// next change carries superseding state.
func (r *Reconciler) handleLedgerChanged(ctx context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(domain.LedgerChangedPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", evt.Payload)
	}

	r.mu.Lock()
	userID := r.userID
	r.mu.Unlock()

	if userID == "" {
		metrics.SavesDropped.WithLabelValues(metrics.DropReasonNoUser).Inc()
		return nil
	}

	requestID, _ := logger.RequestIDFromContext(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		saveCtx := logger.WithRequestID(context.Background(), requestID)
		if err := r.Save(saveCtx, userID, payload.Snapshot); err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				logger.FromContext(saveCtx).Debug(LogMsgSaveDropped, "userId", userID, "reason", "rate limited")
				return
			}
			logger.FromContext(saveCtx).Error(LogMsgSaveFailed, "userId", userID, "error", err)
		}
	}()
	return nil
}

func (r *Reconciler) handleSignedIn(ctx context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(domain.SessionPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", evt.Payload)
	}

	r.mu.Lock()
	r.userID = payload.UserID
	r.displayName = payload.DisplayName
	r.lastSaveAt = time.Time{}
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) handleSignedOut(ctx context.Context, evt event.Event) error {
	r.mu.Lock()
	r.userID = ""
	r.displayName = ""
	r.mu.Unlock()
	return nil
}

// acquireSaveSlot reports whether a save may proceed under the rate
// limit, claiming the slot when it does.
func (r *Reconciler) acquireSaveSlot() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clk.Now()
	if !r.lastSaveAt.IsZero() && now.Sub(r.lastSaveAt) < r.saveInterval {
		return false
	}
	r.lastSaveAt = now
	return true
}

func (r *Reconciler) sleep(ctx context.Context, d time.Duration) {
	done := make(chan struct{})
	timer := r.clk.AfterFunc(d, func() { close(done) })
	select {
	case <-done:
	case <-ctx.Done():
		timer.Stop()
	}
}

func defaultDocument(userID string) *domain.UserDocument {
	defaults := domain.DefaultSnapshot()
	return &domain.UserDocument{
		UserID:     userID,
		Points:     defaults.Balance,
		Stats:      defaults.Stats,
		History:    defaults.History,
		RecentBets: defaults.RecentBets,
	}
}

func snapshotDocument(userID, displayName string, snap domain.Snapshot) *domain.UserDocument {
	history := snap.History
	if len(history) > domain.HistorySaveCap {
		history = history[len(history)-domain.HistorySaveCap:]
	}
	bets := snap.RecentBets
	if len(bets) > domain.RecentBetsSaveCap {
		bets = bets[:domain.RecentBetsSaveCap]
	}
	return &domain.UserDocument{
		UserID:      userID,
		DisplayName: displayName,
		Points:      snap.Balance,
		Stats:       snap.Stats,
		History:     history,
		RecentBets:  bets,
	}
}
