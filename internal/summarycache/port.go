package summarycache

// Store defines the port interface for summary caching.
// The pipeline depends on this interface so tests can swap in a fake
// without touching TTL or eviction logic.
//
// Keys are derived internally from the text and options; callers never
// handle raw keys.
type Store interface {
	// Get returns the cached summary for text and opts if a valid entry exists.
	// An expired entry is removed and reported as a miss.
	Get(text string, opts Options) (string, bool)

	// Set stores summary for text and opts, evicting the oldest entries
	// first when the cache is full.
	Set(text string, opts Options, summary string)

	// Has reports whether a valid entry exists for text and opts.
	Has(text string, opts Options) bool

	// Stats returns a monitoring snapshot.
	Stats() Stats

	// Key returns the key derived for text and opts, for logging.
	Key(text string, opts Options) string
}

var _ Store = (*Cache)(nil)
