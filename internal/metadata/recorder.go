package metadata

import (
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Cache lookups (key, hit or miss, size after the lookup)
- Summarization outcomes (language, attempts, duration)
- Classified errors
- Written artifacts

Logging Goals
- Debuggable cache behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- Cache keys and analysis IDs
- Status codes
- Durations
- Lengths (never document or summary text)

Metadata is write-only.
No component may read metadata to influence cache or retry decisions.
*/

/*
Recorder captures structured events and writes them through zerolog.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they are received.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	logger zerolog.Logger
}

// NewRecorder returns a Recorder that tags every event with sessionID.
func NewRecorder(logger zerolog.Logger, sessionID string) *Recorder {
	return &Recorder{
		logger: logger.With().
			Str("cmp", "metadata").
			Str("session", sessionID).
			Logger(),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	ev := r.logger.Error().
		Time("observed_at", observedAt).
		Str("pkg", packageName).
		Str("action", action).
		Str("cause", cause.String()).
		Str("error", errorString)
	withAttrs(ev, attrs).Msg("error recorded")
}

// RecordCacheLookup logs a summary cache lookup. size is the number of
// entries after the lookup, which may have removed an expired entry.
func (r *Recorder) RecordCacheLookup(key string, hit bool, size int) {
	r.logger.Debug().
		Str("key", key).
		Bool("hit", hit).
		Int("size", size).
		Msg("cache lookup")
}

func (r *Recorder) RecordSummarize(event SummarizeEvent) {
	r.logger.Info().
		Str("language", event.Language).
		Bool("from_cache", event.FromCache).
		Int("attempts", event.Attempts).
		Int64("duration_ms", event.Duration.Milliseconds()).
		Int("input_len", event.InputLen).
		Int("output_len", event.OutputLen).
		Msg("summarize finished")
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	ev := r.logger.Info().
		Str("kind", string(kind)).
		Str("path", path)
	withAttrs(ev, attrs).Msg("artifact written")
}

func withAttrs(ev *zerolog.Event, attrs []Attribute) *zerolog.Event {
	for _, a := range attrs {
		ev = ev.Str(string(a.Key), a.Value)
	}
	return ev
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordCacheLookup(key string, hit bool, size int)
	RecordSummarize(event SummarizeEvent)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

var (
	_ MetadataSink = (*Recorder)(nil)
	_ MetadataSink = (*NoopSink)(nil)
)

// NoopSink, struct that implements MetadataSink but does nothing.
// The CLI (or a test) decides whether to inject Recorder or NoopSink.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordCacheLookup(key string, hit bool, size int) {}

func (n *NoopSink) RecordSummarize(event SummarizeEvent) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}
