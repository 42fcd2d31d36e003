package limiter

import "time"

// timing-related data used to pace requests sent to one host
type hostTiming struct {
	lastRequestAt time.Time
	backoffDelay  time.Duration
	hostDelay     time.Duration
	backoffCount  int
}

func (h *hostTiming) HostDelay() time.Duration {
	return h.hostDelay
}

func (h *hostTiming) BackoffDelay() time.Duration {
	return h.backoffDelay
}

func (h *hostTiming) LastRequestAt() time.Time {
	return h.lastRequestAt
}

func (h *hostTiming) BackoffCount() int {
	return h.backoffCount
}
