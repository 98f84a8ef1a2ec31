package questions

import (
	"sync"
	"time"
)

// Keep the table bounded even if many distinct IPs show up between reads of
// any single entry.
const sweepThreshold = 1024

// RateLimiter tracks a sliding window of submission timestamps per client
// IP. State is in-process only and advisory: it is lost on restart.
type RateLimiter struct {
	window  time.Duration
	limit   int
	mu      sync.Mutex
	entries map[string][]time.Time
	now     func() time.Time
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		window:  window,
		limit:   limit,
		entries: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether a submission from ip fits the window and, if so,
// records it. Stale timestamps are evicted on every read; once the table
// grows past sweepThreshold, fully stale entries of other IPs are dropped in
// the same pass.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := prune(l.entries[ip], cutoff)
	if len(recent) >= l.limit {
		l.entries[ip] = recent
		return false
	}

	l.entries[ip] = append(recent, now)

	if len(l.entries) > sweepThreshold {
		l.sweep(cutoff)
	}

	return true
}

func (l *RateLimiter) sweep(cutoff time.Time) {
	for ip, timestamps := range l.entries {
		if recent := prune(timestamps, cutoff); len(recent) == 0 {
			delete(l.entries, ip)
		} else {
			l.entries[ip] = recent
		}
	}
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	recent := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}
