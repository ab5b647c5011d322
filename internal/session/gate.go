package session

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"colorrush/internal/clock"
)

// attemptGate limits sign-in attempts per user to a rolling window.
// Attempt timestamps live in a bounded LRU so the gate cannot grow
// without limit under churn.
type attemptGate struct {
	mu       sync.Mutex
	clk      clock.Clock
	attempts *lru.Cache[string, []time.Time]
	max      int
	window   time.Duration
}

func newAttemptGate(clk clock.Clock) (*attemptGate, error) {
	cache, err := lru.New[string, []time.Time](GateCacheSize)
	if err != nil {
		return nil, err
	}
	return &attemptGate{
		clk:      clk,
		attempts: cache,
		max:      MaxSignInAttempts,
		window:   AttemptWindow,
	}, nil
}

// Allow records an attempt for the key and reports whether it is within
// the limit. Rejected attempts are not recorded, so the gate reopens as
// soon as old attempts age out.
func (g *attemptGate) Allow(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clk.Now()
	cutoff := now.Add(-g.window)

	recent, _ := g.attempts.Get(key)
	live := recent[:0]
	for _, at := range recent {
		if at.After(cutoff) {
			live = append(live, at)
		}
	}

	if len(live) >= g.max {
		g.attempts.Add(key, live)
		return false
	}

	g.attempts.Add(key, append(live, now))
	return true
}
