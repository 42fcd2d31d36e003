package langdetect

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDetector(detections ...Detection) Detector {
	return DetectorFunc(func(ctx context.Context, text string) ([]Detection, error) {
		return detections, nil
	})
}

func newTestResolver(d Detector, offline bool, timeout time.Duration) *Resolver {
	return NewResolver(d, offline, timeout, zerolog.Nop(), nil)
}

func TestResolver_NoDetector(t *testing.T) {
	r := newTestResolver(nil, false, 0)
	assert.Equal(t, "English", r.Resolve(context.Background(), "Le chat est sur la table et les enfants"))
}

func TestResolver_NoDetectorWinsOverOffline(t *testing.T) {
	r := newTestResolver(nil, true, 0)
	assert.Equal(t, "English", r.Resolve(context.Background(), "Le chat est sur la table et les enfants"))
}

func TestResolver_OfflineUsesHeuristic(t *testing.T) {
	called := false
	d := DetectorFunc(func(ctx context.Context, text string) ([]Detection, error) {
		called = true
		return nil, nil
	})
	r := newTestResolver(d, true, 0)

	got := r.Resolve(context.Background(), "Le chat est sur la table et les enfants sont dans le jardin")
	assert.Equal(t, "French", got)
	assert.False(t, called)
}

func TestResolver_ConfidentResult(t *testing.T) {
	r := newTestResolver(fixedDetector(Detection{Language: "ja", Confidence: 0.92}), false, 0)
	assert.Equal(t, "Japanese", r.Resolve(context.Background(), "text"))
}

func TestResolver_ConfidenceMustExceedThreshold(t *testing.T) {
	r := newTestResolver(fixedDetector(Detection{Language: "fr", Confidence: 0.5}), false, 0)
	assert.Equal(t, "English", r.Resolve(context.Background(), "text"))
}

func TestResolver_EmptyResults(t *testing.T) {
	r := newTestResolver(fixedDetector(), false, 0)
	assert.Equal(t, "English", r.Resolve(context.Background(), "text"))
}

func TestResolver_UnknownCodeFallsBack(t *testing.T) {
	r := newTestResolver(fixedDetector(Detection{Language: "qqq-invalid!", Confidence: 0.99}), false, 0)
	assert.Equal(t, "English", r.Resolve(context.Background(), "text"))
}

func TestResolver_DetectorError(t *testing.T) {
	d := DetectorFunc(func(ctx context.Context, text string) ([]Detection, error) {
		return nil, errors.New("model unavailable")
	})
	r := newTestResolver(d, false, 0)
	assert.Equal(t, "English", r.Resolve(context.Background(), "text"))
}

func TestResolver_SlowDetectorTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	d := DetectorFunc(func(ctx context.Context, text string) ([]Detection, error) {
		// Ignores ctx on purpose.
		<-release
		return []Detection{{Language: "fr", Confidence: 1}}, nil
	})
	r := newTestResolver(d, false, 20*time.Millisecond)

	start := time.Now()
	got := r.Resolve(context.Background(), "text")
	assert.Equal(t, "English", got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolver_PassesFirst1000Characters(t *testing.T) {
	var seen string
	d := DetectorFunc(func(ctx context.Context, text string) ([]Detection, error) {
		seen = text
		return []Detection{{Language: "de", Confidence: 0.8}}, nil
	})
	r := newTestResolver(d, false, 0)

	text := strings.Repeat("ä", 1200)
	require.Equal(t, "German", r.Resolve(context.Background(), text))
	assert.Equal(t, strings.Repeat("ä", 1000), seen)
}

func TestResolver_DefaultTimeout(t *testing.T) {
	r := newTestResolver(fixedDetector(), false, -1)
	assert.Equal(t, DefaultTimeout, r.timeout)
}
