package summarycache

import "time"

const (
	// DefaultMaxSize is the maximum number of cached summaries.
	DefaultMaxSize = 50
	// DefaultTTL is how long a summary stays valid after it was written.
	DefaultTTL = 24 * time.Hour
	// keySampleLength is the number of UTF-16 code units of the input text
	// that take part in key derivation.
	keySampleLength = 1000
)

// Options are the generation options a summary was produced with.
// They are part of the cache key. Context is optional free text.
type Options struct {
	Type    string `json:"type"`
	Format  string `json:"format"`
	Length  string `json:"length"`
	Context string `json:"context"`
}

// Entry is a cached summary together with the time it was written
// (millisecond precision) and a copy of the options that produced it.
type Entry struct {
	Summary   string
	Timestamp time.Time
	Options   Options
}

// Stats is a monitoring snapshot. It is never used for policy decisions.
type Stats struct {
	Size       int
	MaxSize    int
	TTL        time.Duration
	Percentage int
}

// entry is the stored form. seq records first insertion order and breaks
// timestamp ties during eviction.
type entry struct {
	summary     string
	timestampMs int64
	options     Options
	seq         uint64
}

func (e *entry) toEntry() Entry {
	return Entry{
		Summary:   e.summary,
		Timestamp: time.UnixMilli(e.timestampMs),
		Options:   e.options,
	}
}
