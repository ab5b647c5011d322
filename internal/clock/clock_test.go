package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeAdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	fired := []string{}
	fake.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	fake.AfterFunc(1*time.Second, func() { fired = append(fired, "a") })
	fake.AfterFunc(10*time.Second, func() { fired = append(fired, "c") })

	fake.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 1, fake.Pending())
	assert.Equal(t, start.Add(5*time.Second), fake.Now())
}

func TestFakeStopPreventsFiring(t *testing.T) {
	fake := NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	fired := false
	timer := fake.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	fake.Advance(2 * time.Second)

	assert.False(t, fired)
	assert.False(t, timer.Stop(), "second stop reports already stopped")
}

func TestFakeCallbackSchedulingChains(t *testing.T) {
	fake := NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	fired := 0
	fake.AfterFunc(time.Second, func() {
		fired++
		fake.AfterFunc(time.Second, func() { fired++ })
	})

	fake.Advance(3 * time.Second)
	assert.Equal(t, 2, fired)
}
