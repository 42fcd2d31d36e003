package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// MaxDuration returns the largest duration in the slice, or zero when empty.
func MaxDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	max := durations[0]
	for _, d := range durations[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// ComputeJitter returns a uniformly distributed duration in [0, max).
// Non-positive max yields zero.
func ComputeJitter(max time.Duration, rng rand.Rand) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}

// ExponentialBackoffDelay computes initial * multiplier^(backoffCount-1),
// capped at the max duration, plus random jitter.
// backoffCount values below 1 are treated as the first backoff.
func ExponentialBackoffDelay(
	backoffCount int,
	jitter time.Duration,
	rng rand.Rand,
	backoffParam BackoffParam,
) time.Duration {
	if backoffCount < 1 {
		backoffCount = 1
	}

	base := float64(backoffParam.InitialDuration()) * math.Pow(backoffParam.Multiplier(), float64(backoffCount-1))
	if maxDelay := float64(backoffParam.MaxDuration()); base > maxDelay {
		base = maxDelay
	}
	if base < 0 {
		base = 0
	}

	return time.Duration(base) + ComputeJitter(jitter, rng)
}
