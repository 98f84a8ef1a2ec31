package questions

import (
	"fmt"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	limiter := NewRateLimiter(60*time.Second, 3)

	current := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("Expected submission %d to be allowed", i+1)
		}
		current = current.Add(time.Second)
	}

	// 4th within the same window is rejected
	if limiter.Allow("1.2.3.4") {
		t.Error("Expected 4th submission within the window to be rejected")
	}

	// A different IP is unaffected
	if !limiter.Allow("5.6.7.8") {
		t.Error("Expected other IP to be allowed")
	}

	// After the window passes, the IP is allowed again
	current = current.Add(61 * time.Second)
	if !limiter.Allow("1.2.3.4") {
		t.Error("Expected submission after window expiry to be allowed")
	}
}

func TestRateLimiterEvictionOnRead(t *testing.T) {
	limiter := NewRateLimiter(60*time.Second, 3)

	current := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.Allow("1.2.3.4")
	limiter.Allow("1.2.3.4")

	current = current.Add(2 * time.Minute)
	limiter.Allow("1.2.3.4")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if got := len(limiter.entries["1.2.3.4"]); got != 1 {
		t.Errorf("Expected stale timestamps evicted on read, got %d entries", got)
	}
}

func TestRateLimiterSweep(t *testing.T) {
	limiter := NewRateLimiter(60*time.Second, 3)

	current := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for i := 0; i <= sweepThreshold; i++ {
		limiter.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}

	// All previous windows are stale by now; the next Allow crosses the
	// threshold and sweeps them out.
	current = current.Add(2 * time.Minute)
	limiter.Allow("192.168.0.1")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if got := len(limiter.entries); got != 1 {
		t.Errorf("Expected sweep to leave 1 entry, got %d", got)
	}
}
