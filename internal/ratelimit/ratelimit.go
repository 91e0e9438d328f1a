// Package ratelimit implements sliding-window admission control: at most max
// requests within any trailing period. Throttling is cooperative — callers
// that cannot acquire a slot are expected to sleep WaitTime once and then
// proceed regardless, protecting the remote server from bursts without
// acting as a hard gate.
package ratelimit

import "time"

// Limiter is a sliding-window rate limiter. It is not safe for concurrent
// use; the client serializes calls.
type Limiter struct {
	max    int
	period time.Duration
	stamps []time.Time

	// now is swapped out in tests
	now func() time.Time
}

// New creates a Limiter admitting at most max requests per trailing period
func New(max int, period time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		period: period,
		now:    time.Now,
	}
}

// Acquire tries to take a request slot. Entries older than the period are
// pruned first; if capacity remains the current time is recorded and Acquire
// returns true, otherwise nothing is recorded and it returns false.
func (l *Limiter) Acquire() bool {
	now := l.now()
	l.prune(now)

	if len(l.stamps) < l.max {
		l.stamps = append(l.stamps, now)
		return true
	}
	return false
}

// WaitTime returns how long until the next slot frees up: zero when the
// window has capacity, otherwise period minus the age of the oldest entry,
// floored at zero.
func (l *Limiter) WaitTime() time.Duration {
	now := l.now()
	l.prune(now)

	if len(l.stamps) < l.max {
		return 0
	}
	wait := l.period - now.Sub(l.stamps[0])
	if wait < 0 {
		return 0
	}
	return wait
}

func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.period)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = l.stamps[i:]
	}
}
