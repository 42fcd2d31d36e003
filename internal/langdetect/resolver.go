package langdetect

import (
	"context"
	"time"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rs/zerolog"
)

// Resolver turns a text into a language name, never failing: every
// problem along the way resolves to English.
//
// Order of precedence:
//  1. no detector configured: English
//  2. offline: the stopword heuristic
//  3. the detector, bounded by the timeout, on the first 1000 characters
//  4. a top result above MinConfidence: its name; anything else: English
type Resolver struct {
	detector     Detector
	offline      bool
	timeout      time.Duration
	heuristic    Heuristic
	logger       zerolog.Logger
	metadataSink metadata.MetadataSink
}

func NewResolver(
	detector Detector,
	offline bool,
	timeout time.Duration,
	logger zerolog.Logger,
	metadataSink metadata.MetadataSink,
) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return &Resolver{
		detector:     detector,
		offline:      offline,
		timeout:      timeout,
		logger:       logger.With().Str("cmp", "langdetect").Logger(),
		metadataSink: metadataSink,
	}
}

func (r *Resolver) Resolve(ctx context.Context, text string) string {
	if r.detector == nil {
		r.logger.Debug().Msg("no language detector configured, falling back to English")
		return DefaultLanguage
	}
	if r.offline {
		lang := r.heuristic.Guess(text)
		r.logger.Debug().Str("language", lang).Msg("offline mode, used heuristic detection")
		return lang
	}

	results, err := r.detect(ctx, sample(text))
	if err != nil {
		r.logger.Warn().Err(err).Msg("language detection failed, falling back to English")
		r.metadataSink.RecordError(
			time.Now(),
			"langdetect",
			"Resolver.Resolve",
			mapDetectionErrorToMetadataCause(err),
			err.Error(),
			nil,
		)
		return DefaultLanguage
	}

	if len(results) > 0 && results[0].Confidence > MinConfidence {
		return LanguageName(results[0].Language)
	}
	return DefaultLanguage
}

type detectResult struct {
	detections []Detection
	err        error
}

// detect runs the detector under the timeout. A detector that ignores its
// context is abandoned when the deadline passes.
func (r *Resolver) detect(ctx context.Context, text string) ([]Detection, *DetectionError) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan detectResult, 1)
	go func() {
		detections, err := r.detector.Detect(ctx, text)
		done <- detectResult{detections: detections, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &DetectionError{
			Message:   ctx.Err().Error(),
			Retryable: true,
			Cause:     ErrCauseTimeout,
			Err:       ctx.Err(),
		}
	case res := <-done:
		if res.err != nil {
			return nil, &DetectionError{
				Message:   res.err.Error(),
				Retryable: false,
				Cause:     ErrCauseDetectorFailed,
				Err:       res.err,
			}
		}
		return res.detections, nil
	}
}

func sample(text string) string {
	if len(text) <= detectSampleLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= detectSampleLength {
		return text
	}
	return string(runes[:detectSampleLength])
}
