package limiter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/docuprism/pkg/timeutil"
)

// RateLimiter
// Paces outgoing requests per host.
// Responsibilities:
// - Bookkeep each host's last request timestamp
// - Compute the final delay for each host given various factors
// - Make sure callers honor the server's Retry-After and 429 responses
type RateLimiter interface {
	SetBaseDelay(baseDelay time.Duration)
	SetJitter(jitter time.Duration)
	SetRandomSeed(randomSeed int64)
	SetHostDelay(host string, delay time.Duration)
	Backoff(host string)
	ResetBackoff(host string)
	MarkLastRequestAsNow(host string)
	ResolveDelay(host string) time.Duration
}

type ConcurrentRateLimiter struct {
	mu           sync.RWMutex
	rngMu        sync.Mutex
	baseDelay    time.Duration
	jitter       time.Duration
	backoffParam timeutil.BackoffParam
	hostTimings  map[string]hostTiming
	rng          *rand.Rand
}

func NewConcurrentRateLimiter() *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		backoffParam: timeutil.NewBackoffParam(1*time.Second, 2.0, 30*time.Second),
		hostTimings:  make(map[string]hostTiming),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
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

func (r *ConcurrentRateLimiter) SetBackoffParam(param timeutil.BackoffParam) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backoffParam = param
}

func (r *ConcurrentRateLimiter) SetRandomSeed(randomSeed int64) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	r.rng = rand.New(rand.NewSource(randomSeed))
}

// SetHostDelay sets a minimum gap for host, separate from the global base
// delay. Typically fed from a Retry-After header.
func (r *ConcurrentRateLimiter) SetHostDelay(host string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.hostDelay = delay
	r.hostTimings[host] = timing
}

// Backoff increments the backoff counter of host and recomputes its
// exponential backoff delay.
func (r *ConcurrentRateLimiter) Backoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.backoffCount++
	timing.backoffDelay = r.exponentialBackoffDelay(timing.backoffCount)
	r.hostTimings[host] = timing
}

// ResetBackoff clears the backoff state and host delay after a successful request.
func (r *ConcurrentRateLimiter) ResetBackoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing, exists := r.hostTimings[host]
	if exists {
		timing.backoffCount = 0
		timing.backoffDelay = 0
		timing.hostDelay = 0
		r.hostTimings[host] = timing
	}
}

func (r *ConcurrentRateLimiter) MarkLastRequestAsNow(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.lastRequestAt = time.Now()
	r.hostTimings[host] = timing
}

// ResolveDelay returns how long the caller must still wait before the next
// request to host.
// FinalDelay = max(BaseDelay, HostDelay, BackoffDelay) + Jitter, minus the
// time elapsed since the last request. Jitter only spreads a positive delay.
func (r *ConcurrentRateLimiter) ResolveDelay(host string) time.Duration {
	// copy needed state under read lock, then compute without holding r.mu
	r.mu.RLock()
	timing, exists := r.hostTimings[host]
	base := r.baseDelay
	jitter := r.jitter
	r.mu.RUnlock()

	// no delay for a host never requested
	if !exists || timing.lastRequestAt.IsZero() {
		return 0
	}

	finalDelay := timeutil.MaxDuration([]time.Duration{base, timing.hostDelay, timing.backoffDelay})
	if finalDelay <= 0 {
		return 0
	}
	finalDelay += r.computeJitter(jitter)

	elapsed := time.Since(timing.lastRequestAt)
	if elapsed < finalDelay {
		return finalDelay - elapsed
	}
	return 0
}

// Wait blocks until host may be requested again or ctx is done.
func (r *ConcurrentRateLimiter) Wait(ctx context.Context, host string) error {
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

// exponentialBackoffDelay does NOT take r.mu; caller must hold it.
func (r *ConcurrentRateLimiter) exponentialBackoffDelay(backoffCount int) time.Duration {
	r.rngMu.Lock()
	rng := *r.rng
	r.rngMu.Unlock()

	return timeutil.ExponentialBackoffDelay(backoffCount, 0, rng, r.backoffParam) + r.computeJitter(r.jitter)
}

// computeJitter returns a pseudo-random duration in [0, max).
func (r *ConcurrentRateLimiter) computeJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	return time.Duration(r.rng.Int63n(int64(max)))
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
