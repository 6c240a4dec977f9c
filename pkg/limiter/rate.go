package limiter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/newsguard/pkg/timeutil"
)

// RateLimiter
// Paces outbound requests per destination host.
// Responsibilities:
// - Bookkeep each host's last request timestamp
// - Compute the remaining delay before the next request to a host
//
// It never rejects or retries a request; callers decide whether to wait.
type RateLimiter interface {
	SetBaseDelay(baseDelay time.Duration)
	SetJitter(jitter time.Duration)
	SetRandomSeed(randomSeed int64)
	MarkLastFetchAsNow(host string)
	ResolveDelay(host string) time.Duration
}

type ConcurrentRateLimiter struct {
	mu          sync.RWMutex
	rngMu       sync.Mutex
	baseDelay   time.Duration
	jitter      time.Duration
	hostTimings map[string]hostTiming
	rng         *rand.Rand
	clock       timeutil.Clock
}

// timing-related data used to track when a host was last contacted
type hostTiming struct {
	lastFetchAt time.Time
}

func (h hostTiming) LastFetchAt() time.Time {
	return h.lastFetchAt
}

func NewConcurrentRateLimiter() *ConcurrentRateLimiter {
	return NewConcurrentRateLimiterWithClock(timeutil.SystemClock{})
}

// NewConcurrentRateLimiterWithClock is NewConcurrentRateLimiter with an
// injected clock. This is useful for testing.
func NewConcurrentRateLimiterWithClock(clock timeutil.Clock) *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		hostTimings: make(map[string]hostTiming),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:       clock,
	}
}

func (r *ConcurrentRateLimiter) SetBaseDelay(baseDelay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baseDelay = baseDelay
}

func (r *ConcurrentRateLimiter) SetJitter(jitter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jitter = jitter
}

func (r *ConcurrentRateLimiter) SetRandomSeed(randomSeed int64) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	r.rng = rand.New(rand.NewSource(randomSeed))
}

// Mark the given host lastFetch to now
func (r *ConcurrentRateLimiter) MarkLastFetchAsNow(host string) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.hostTimings[host] = hostTiming{lastFetchAt: now}
}

// Compute the remaining delay for given host
// FinalDelay = BaseDelay + Jitter, minus the time elapsed since the last request
func (r *ConcurrentRateLimiter) ResolveDelay(host string) time.Duration {
	// copy needed state under read lock, then compute without holding r.mu
	r.mu.RLock()
	timing, exists := r.hostTimings[host]
	base := r.baseDelay
	jitter := r.jitter
	r.mu.RUnlock()

	// first request to a host is never delayed
	if !exists || (base <= 0 && jitter <= 0) {
		return 0
	}

	r.rngMu.Lock()
	finalDelay := base + timeutil.ComputeJitter(jitter, r.rng)
	r.rngMu.Unlock()

	elapsed := r.clock.Now().Sub(timing.lastFetchAt)
	if elapsed < finalDelay {
		return finalDelay - elapsed
	}
	return 0
}

// Wait blocks until the delay resolved for host has passed or ctx is done.
func Wait(ctx context.Context, r RateLimiter, host string) error {
	delay := r.ResolveDelay(host)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *ConcurrentRateLimiter) BaseDelay() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseDelay
}

func (r *ConcurrentRateLimiter) Jitter() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jitter
}

func (r *ConcurrentRateLimiter) HostTimings() map[string]hostTiming {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// return a shallow copy to avoid exposing internal map for mutation
	copyMap := make(map[string]hostTiming, len(r.hostTimings))
	for k, v := range r.hostTimings {
		copyMap[k] = v
	}
	return copyMap
}
