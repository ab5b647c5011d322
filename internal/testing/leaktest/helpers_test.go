package leaktest

import (
	"sync"
	"testing"
	"time"
)

func TestCheckerPassesWhenGoroutinesFinish(t *testing.T) {
	checker := NewGoroutineChecker(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	checker.Check(0)
}

func TestCheckerToleranceCoversKnownStragglers(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() {
		<-done
	}()
	t.Cleanup(func() { close(done) })

	time.Sleep(20 * time.Millisecond)

	checker.Check(2)
}
