package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests advance time deterministically
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, period time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(max, period)
	l.now = clock.now
	return l, clock
}

func TestLimiter_AdmitsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(3, 60*time.Second)

	assert.True(t, l.Acquire())
	assert.True(t, l.Acquire())
	assert.True(t, l.Acquire())
	assert.False(t, l.Acquire(), "fourth request in the window must be rejected")
}

func TestLimiter_WindowNeverExceedsMax(t *testing.T) {
	l, clock := newTestLimiter(5, 10*time.Second)

	admitted := 0
	for i := 0; i < 100; i++ {
		if l.Acquire() {
			admitted++
		}
		assert.LessOrEqual(t, len(l.stamps), 5, "recorded timestamps must never exceed max")
		clock.advance(100 * time.Millisecond)
	}
	assert.Greater(t, admitted, 5, "slots should free up as the window slides")
}

func TestLimiter_SlotsFreeAfterPeriod(t *testing.T) {
	l, clock := newTestLimiter(2, 60*time.Second)

	assert.True(t, l.Acquire())
	assert.True(t, l.Acquire())
	assert.False(t, l.Acquire())

	clock.advance(61 * time.Second)
	assert.True(t, l.Acquire(), "entries older than the period are pruned")
}

func TestLimiter_WaitTimeZeroWhenCapacity(t *testing.T) {
	l, _ := newTestLimiter(2, 60*time.Second)

	assert.Equal(t, time.Duration(0), l.WaitTime())
	l.Acquire()
	assert.Equal(t, time.Duration(0), l.WaitTime(), "wait time is zero whenever Acquire would succeed")
}

func TestLimiter_WaitTimePositiveAndBoundedWhenFull(t *testing.T) {
	l, clock := newTestLimiter(2, 60*time.Second)

	l.Acquire()
	clock.advance(10 * time.Second)
	l.Acquire()

	wait := l.WaitTime()
	assert.Equal(t, 50*time.Second, wait, "period minus age of oldest entry")
	assert.LessOrEqual(t, wait, 60*time.Second)

	clock.advance(50 * time.Second)
	assert.Equal(t, time.Duration(0), l.WaitTime())
	assert.True(t, l.Acquire())
}

func TestLimiter_RejectedAcquireRecordsNothing(t *testing.T) {
	l, _ := newTestLimiter(1, 60*time.Second)

	assert.True(t, l.Acquire())
	before := len(l.stamps)
	assert.False(t, l.Acquire())
	assert.Equal(t, before, len(l.stamps), "a failed Acquire must not consume a slot")
}
