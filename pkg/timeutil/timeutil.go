package timeutil

import (
	"math/rand"
	"sync"
	"time"
)

// Clock abstracts the wall clock so time-dependent policy (cache expiry,
// request pacing) can be driven by simulated time in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a manually advanced Clock. Safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the clock to t.
func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// UnixMillis returns t as milliseconds since the Unix epoch.
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMillis is the inverse of UnixMillis.
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// ComputeJitter returns a pseudo-random duration in [0, limit).
func ComputeJitter(limit time.Duration, rng *rand.Rand) time.Duration {
	if limit <= 0 || rng == nil {
		return 0
	}
	return time.Duration(rng.Int63n(int64(limit)))
}
