package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorrush/internal/clock"
	"colorrush/internal/domain"
	"colorrush/internal/event"
	"colorrush/internal/identity"
)

type fakeEngine struct {
	hydrated []domain.Snapshot
	resets   int
	signedIn bool
	name     string
}

func (f *fakeEngine) HydrateLedger(_ context.Context, snap domain.Snapshot) {
	f.hydrated = append(f.hydrated, snap)
}

func (f *fakeEngine) ResetLedger(_ context.Context) { f.resets++ }

func (f *fakeEngine) SetIdentity(signedIn bool, name string) {
	f.signedIn = signedIn
	f.name = name
}

type fakeLoader struct {
	snapshots map[string]domain.Snapshot
	err       error
	calls     []string
}

func (f *fakeLoader) Load(_ context.Context, userID string) (domain.Snapshot, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return domain.DefaultSnapshot(), f.err
	}
	if snap, ok := f.snapshots[userID]; ok {
		return snap, nil
	}
	return domain.DefaultSnapshot(), nil
}

func newTestBridge(t *testing.T, loader *fakeLoader) (*Bridge, *clock.Fake, *event.MemoryBus) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	bus := event.NewMemoryBus()
	b, err := NewBridge(identity.NewDevProvider(), loader, bus, clk)
	require.NoError(t, err)
	return b, clk, bus
}

func TestSignInAfterAttachHydratesImmediately(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{snapshots: map[string]domain.Snapshot{
		"u1": {Balance: 4321},
	}}
	b, _, _ := newTestBridge(t, loader)
	engine := &fakeEngine{}
	require.NoError(t, b.Attach(ctx, engine))

	id, err := b.SignIn(ctx, "u1", "Tester")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)

	require.Len(t, engine.hydrated, 1)
	assert.Equal(t, 4321, engine.hydrated[0].Balance)
	assert.True(t, engine.signedIn)
	assert.Equal(t, "Tester", engine.name)
}

func TestSignInBeforeAttachQueuesOneHydrate(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{snapshots: map[string]domain.Snapshot{
		"u1": {Balance: 111},
		"u2": {Balance: 222},
	}}
	b, _, _ := newTestBridge(t, loader)

	_, err := b.SignIn(ctx, "u1", "First")
	require.NoError(t, err)
	_, err = b.SignIn(ctx, "u2", "Second")
	require.NoError(t, err)

	assert.Empty(t, loader.calls, "no load before attach")

	engine := &fakeEngine{}
	require.NoError(t, b.Attach(ctx, engine))

	assert.Equal(t, []string{"u2"}, loader.calls, "later sign-in replaced the queued target")
	require.Len(t, engine.hydrated, 1)
	assert.Equal(t, 222, engine.hydrated[0].Balance)
	assert.Equal(t, "Second", engine.name)
}

func TestAttachTwiceRejected(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBridge(t, &fakeLoader{})

	require.NoError(t, b.Attach(ctx, &fakeEngine{}))
	assert.ErrorIs(t, b.Attach(ctx, &fakeEngine{}), domain.ErrEngineAttached)
}

func TestSignInPublishesSessionEvent(t *testing.T) {
	ctx := context.Background()
	b, _, bus := newTestBridge(t, &fakeLoader{})

	var payloads []domain.SessionPayloadV1
	bus.Subscribe(event.SessionSignedIn, func(_ context.Context, e event.Event) error {
		payloads = append(payloads, e.Payload.(domain.SessionPayloadV1))
		return nil
	})

	require.NoError(t, b.Attach(ctx, &fakeEngine{}))
	_, err := b.SignIn(ctx, "u1", "Tester")
	require.NoError(t, err)

	require.Len(t, payloads, 1)
	assert.Equal(t, "u1", payloads[0].UserID)
}

func TestLoadFailureStillHydratesDefaults(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{err: fmt.Errorf("%w: down", domain.ErrStoreUnavailable)}
	b, _, _ := newTestBridge(t, loader)
	engine := &fakeEngine{}
	require.NoError(t, b.Attach(ctx, engine))

	_, err := b.SignIn(ctx, "u1", "Tester")
	require.NoError(t, err, "persistence failure never blocks the session")

	require.Len(t, engine.hydrated, 1)
	assert.Equal(t, domain.DefaultSnapshot(), engine.hydrated[0])
	assert.True(t, engine.signedIn)
}

func TestSignOutResetsAndPublishes(t *testing.T) {
	ctx := context.Background()
	b, _, bus := newTestBridge(t, &fakeLoader{})
	engine := &fakeEngine{}
	require.NoError(t, b.Attach(ctx, engine))

	signedOut := 0
	bus.Subscribe(event.SessionSignedOut, func(_ context.Context, _ event.Event) error {
		signedOut++
		return nil
	})

	_, err := b.SignIn(ctx, "u1", "Tester")
	require.NoError(t, err)
	require.NoError(t, b.SignOut(ctx))

	assert.Equal(t, 1, engine.resets)
	assert.False(t, engine.signedIn)
	assert.Equal(t, 1, signedOut)

	_, ok := b.Current()
	assert.False(t, ok)
}

func TestSignOutWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBridge(t, &fakeLoader{})
	engine := &fakeEngine{}
	require.NoError(t, b.Attach(ctx, engine))

	require.NoError(t, b.SignOut(ctx))
	assert.Zero(t, engine.resets)
}

func TestSignInGateBlocksSixthAttempt(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBridge(t, &fakeLoader{})
	require.NoError(t, b.Attach(ctx, &fakeEngine{}))

	for i := 0; i < MaxSignInAttempts; i++ {
		_, err := b.SignIn(ctx, "u1", "Tester")
		require.NoError(t, err)
	}

	_, err := b.SignIn(ctx, "u1", "Tester")
	assert.ErrorIs(t, err, domain.ErrSignInRateLimited)
}

func TestSignInGateReopensAfterWindow(t *testing.T) {
	ctx := context.Background()
	b, clk, _ := newTestBridge(t, &fakeLoader{})
	require.NoError(t, b.Attach(ctx, &fakeEngine{}))

	for i := 0; i < MaxSignInAttempts; i++ {
		_, err := b.SignIn(ctx, "u1", "Tester")
		require.NoError(t, err)
	}
	_, err := b.SignIn(ctx, "u1", "Tester")
	require.ErrorIs(t, err, domain.ErrSignInRateLimited)

	clk.Advance(AttemptWindow + time.Second)

	_, err = b.SignIn(ctx, "u1", "Tester")
	assert.NoError(t, err)
}

func TestSignInGateIsPerUser(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBridge(t, &fakeLoader{})
	require.NoError(t, b.Attach(ctx, &fakeEngine{}))

	for i := 0; i < MaxSignInAttempts; i++ {
		_, err := b.SignIn(ctx, "u1", "Tester")
		require.NoError(t, err)
	}

	_, err := b.SignIn(ctx, "u2", "Other")
	assert.NoError(t, err, "another user is unaffected")
}

func TestSignInGateHoldsLimitUnderConcurrency(t *testing.T) {
	gate, err := newAttemptGate(clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	const workers = 8
	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if gate.Allow("u1") {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(MaxSignInAttempts), allowed.Load())
}
