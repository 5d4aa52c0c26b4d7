package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindow_AllowsUpToLimit(t *testing.T) {
	w := NewSlidingWindow(3, time.Minute)

	assert.True(t, w.Allow("1.2.3.4"))
	assert.True(t, w.Allow("1.2.3.4"))
	assert.True(t, w.Allow("1.2.3.4"))
	assert.False(t, w.Allow("1.2.3.4"))
}

func TestSlidingWindow_ClientsAreIndependent(t *testing.T) {
	w := NewSlidingWindow(1, time.Minute)

	assert.True(t, w.Allow("1.2.3.4"))
	assert.False(t, w.Allow("1.2.3.4"))
	assert.True(t, w.Allow("5.6.7.8"))
}

func TestSlidingWindow_SlidesInsteadOfResetting(t *testing.T) {
	now := time.Now()
	w := NewSlidingWindow(2, time.Minute)
	w.now = func() time.Time { return now }

	assert.True(t, w.Allow("c"))

	// 40 seconds later: the first hit is still inside the window.
	w.now = func() time.Time { return now.Add(40 * time.Second) }
	assert.True(t, w.Allow("c"))
	assert.False(t, w.Allow("c"))

	// 70 seconds after the first hit it has slid out, but the second
	// (at +40s) is still counted. A fixed window would have reset both.
	w.now = func() time.Time { return now.Add(70 * time.Second) }
	assert.True(t, w.Allow("c"))
	assert.False(t, w.Allow("c"))
}

func TestSlidingWindow_EvictsIdleClients(t *testing.T) {
	now := time.Now()
	w := NewSlidingWindow(5, time.Minute)
	w.now = func() time.Time { return now }

	assert.True(t, w.Allow("idle"))
	assert.True(t, w.Allow("active"))

	// Two minutes on: "active" hits again, "idle" never comes back.
	w.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.True(t, w.Allow("active"))

	w.evictIdle()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.NotContains(t, w.hits, "idle")
	assert.Contains(t, w.hits, "active")
}
