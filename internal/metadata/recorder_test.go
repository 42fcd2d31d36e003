package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedRecorder(t *testing.T) (*Recorder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	return NewRecorder(logger, "sess-1"), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRecorder_RecordError(t *testing.T) {
	r, buf := newBufferedRecorder(t)
	observed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	r.RecordError(observed, "summarizer", "HTTPClient.Summarize", CauseNetworkFailure,
		errors.New("boom").Error(),
		[]Attribute{NewAttr(AttrHTTPStatus, "503"), NewAttr(AttrModel, "gpt-4o-mini")})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	ev := lines[0]
	assert.Equal(t, "error", ev["level"])
	assert.Equal(t, "metadata", ev["cmp"])
	assert.Equal(t, "sess-1", ev["session"])
	assert.Equal(t, "summarizer", ev["pkg"])
	assert.Equal(t, "HTTPClient.Summarize", ev["action"])
	assert.Equal(t, "network_failure", ev["cause"])
	assert.Equal(t, "boom", ev["error"])
	assert.Equal(t, "503", ev["http_status"])
	assert.Equal(t, "gpt-4o-mini", ev["model"])
}

func TestRecorder_RecordCacheLookupAndSummarize(t *testing.T) {
	r, buf := newBufferedRecorder(t)

	r.RecordCacheLookup("1l0d3t-ek8u47", true, 3)
	r.RecordSummarize(SummarizeEvent{
		Language:  "French",
		Attempts:  2,
		Duration:  1500 * time.Millisecond,
		InputLen:  120,
		OutputLen: 40,
	})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "1l0d3t-ek8u47", lines[0]["key"])
	assert.Equal(t, true, lines[0]["hit"])
	assert.EqualValues(t, 3, lines[0]["size"])

	assert.Equal(t, "French", lines[1]["language"])
	assert.Equal(t, false, lines[1]["from_cache"])
	assert.EqualValues(t, 2, lines[1]["attempts"])
	assert.EqualValues(t, 1500, lines[1]["duration_ms"])
}

func TestRecorder_RecordArtifact(t *testing.T) {
	r, buf := newBufferedRecorder(t)

	r.RecordArtifact(ArtifactHistory, "/tmp/docuprism-analyses.json",
		[]Attribute{NewAttr(AttrAnalysisID, "abc")})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "history", lines[0]["kind"])
	assert.Equal(t, "/tmp/docuprism-analyses.json", lines[0]["path"])
	assert.Equal(t, "abc", lines[0]["analysis_id"])
}

func TestErrorCause_String(t *testing.T) {
	assert.Equal(t, "storage_failure", CauseStorageFailure.String())
	assert.Equal(t, "invariant_violation", CauseInvariantViolation.String())
	assert.Equal(t, "unknown", ErrorCause(99).String())
}

func TestNoopSink_DoesNothing(t *testing.T) {
	var sink MetadataSink = &NoopSink{}
	assert.NotPanics(t, func() {
		sink.RecordError(time.Now(), "p", "a", CauseUnknown, "x", nil)
		sink.RecordCacheLookup("k", false, 0)
		sink.RecordSummarize(SummarizeEvent{})
		sink.RecordArtifact(ArtifactMetrics, "/tmp/m.prom", nil)
	})
}
