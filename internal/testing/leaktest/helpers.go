// Package leaktest compares goroutine counts before and after a test
// body to catch goroutines that outlive their owner.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker snapshots the goroutine count at construction time
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count. Call before
// the code under test starts any workers.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	// Let already-scheduled goroutines settle first
	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check fails the test when more than tolerance goroutines remain
// beyond the initial snapshot. Runs a GC pass first so finalizer-held
// goroutines get a chance to exit.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	runtime.Gosched()
	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	leaked := runtime.NumGoroutine() - g.before
	if leaked > tolerance {
		g.t.Errorf("goroutine leak: before=%d, leaked=%d, tolerance=%d",
			g.before, leaked, tolerance)
	}
}
