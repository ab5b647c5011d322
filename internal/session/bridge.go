package session

import (
	"context"
	"fmt"
	"sync"

	"colorrush/internal/clock"
	"colorrush/internal/domain"
	"colorrush/internal/event"
	"colorrush/internal/identity"
	"colorrush/internal/logger"
	"colorrush/internal/metrics"
)

// Engine is the game-side surface the bridge drives. Satisfied by
// round.Engine.
type Engine interface {
	HydrateLedger(ctx context.Context, snap domain.Snapshot)
	ResetLedger(ctx context.Context)
	SetIdentity(signedIn bool, displayName string)
}

// Loader loads a user's persisted snapshot. Satisfied by
// persist.Reconciler.
type Loader interface {
	Load(ctx context.Context, userID string) (domain.Snapshot, error)
}

// Bridge binds identity results to the game engine: loading remote
// state on sign-in and resetting to defaults on sign-out. Construction
// is two-phase; the bridge queues at most one hydrate until an engine
// is attached, so identity resolution and game construction can happen
// in either order.
type Bridge struct {
	provider identity.Provider
	loader   Loader
	eventBus event.Bus
	gate     *attemptGate

	mu      sync.Mutex
	engine  Engine
	current *identity.Identity
	pending *identity.Identity
}

// NewBridge creates a Bridge. Attach must be called before any loaded
// state reaches the engine.
func NewBridge(provider identity.Provider, loader Loader, eventBus event.Bus, clk clock.Clock) (*Bridge, error) {
	gate, err := newAttemptGate(clk)
	if err != nil {
		return nil, fmt.Errorf("failed to create attempt gate: %w", err)
	}
	return &Bridge{
		provider: provider,
		loader:   loader,
		eventBus: eventBus,
		gate:     gate,
	}, nil
}

// Attach binds the game engine and performs any queued hydrate. It may
// be called exactly once.
func (b *Bridge) Attach(ctx context.Context, engine Engine) error {
	b.mu.Lock()
	if b.engine != nil {
		b.mu.Unlock()
		return domain.ErrEngineAttached
	}
	b.engine = engine
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if pending != nil {
		b.hydrate(ctx, engine, *pending)
	}
	return nil
}

// SignIn resolves the identity and hydrates the engine with the user's
// persisted state. Attempts beyond the rolling limit are rejected
// before the provider is contacted.
func (b *Bridge) SignIn(ctx context.Context, userID, displayName string) (identity.Identity, error) {
	log := logger.FromContext(ctx)

	gateKey := userID
	if gateKey == "" {
		gateKey = "anonymous"
	}
	if !b.gate.Allow(gateKey) {
		log.Warn(LogMsgSignInBlocked, "userId", gateKey)
		metrics.SignInsBlocked.Inc()
		return identity.Identity{}, domain.ErrSignInRateLimited
	}

	id, err := b.provider.Resolve(ctx, userID, displayName)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("identity resolution failed: %w", err)
	}

	if err := b.eventBus.Publish(ctx, event.NewSessionSignedInEvent(id.UserID, id.DisplayName)); err != nil {
		log.Error("Failed to publish sign-in event", "error", err)
	}

	b.mu.Lock()
	b.current = &id
	engine := b.engine
	if engine == nil {
		// A later sign-in replaces the queued target.
		b.pending = &id
	}
	b.mu.Unlock()

	if engine == nil {
		log.Info(LogMsgLoadQueued, "userId", id.UserID)
		return id, nil
	}

	b.hydrate(ctx, engine, id)
	log.Info(LogMsgSignedIn, "userId", id.UserID)
	return id, nil
}

// SignOut resets the ledger to defaults in place. No remote call; the
// last rate-limited save already carried the user's state.
func (b *Bridge) SignOut(ctx context.Context) error {
	b.mu.Lock()
	current := b.current
	b.current = nil
	b.pending = nil
	engine := b.engine
	b.mu.Unlock()

	if current == nil {
		return nil
	}

	if err := b.eventBus.Publish(ctx, event.NewSessionSignedOutEvent(current.UserID)); err != nil {
		logger.FromContext(ctx).Error("Failed to publish sign-out event", "error", err)
	}

	if engine != nil {
		engine.ResetLedger(ctx)
		engine.SetIdentity(false, "")
	}

	logger.FromContext(ctx).Info(LogMsgSignedOut, "userId", current.UserID)
	return nil
}

// Current returns the signed-in identity, if any
func (b *Bridge) Current() (identity.Identity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return identity.Identity{}, false
	}
	return *b.current, true
}

// hydrate loads the snapshot and pushes it into the engine. A failed
// load still hydrates defaults so the session is usable.
func (b *Bridge) hydrate(ctx context.Context, engine Engine, id identity.Identity) {
	snap, err := b.loader.Load(ctx, id.UserID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgLoadUsingDefaults, "userId", id.UserID, "error", err)
	}
	engine.HydrateLedger(ctx, snap)
	engine.SetIdentity(true, id.DisplayName)
}
