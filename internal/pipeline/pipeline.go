package pipeline

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/docuprism/internal/history"
	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/internal/summarizer"
	"github.com/rohmanhakim/docuprism/internal/summarycache"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/retry"
	"github.com/rs/zerolog"
)

/*
 Pipeline is the single place that decides how a summary is obtained.

 Order of work for one request:
 - reject blank input and unsupported options
 - answer from the summary cache when a valid entry exists
 - detect the language and build the shared context
 - call the summarizer under a per-attempt timeout, retrying transient failures
 - reject blank summaries
 - store the summary in the cache, then optionally in history

 The summarizer and the language resolver classify failures; only the
 pipeline decides to retry or give up. Metadata and metrics are
 observational and never influence that decision.
*/

// LanguageResolver names the language of a text. It never fails.
type LanguageResolver interface {
	Resolve(ctx context.Context, text string) string
}

// HistoryStore persists analyses the user asked to keep.
type HistoryStore interface {
	Save(inputText string, summary string, opts history.Options) (history.Analysis, failure.ClassifiedError)
}

// Observer receives metrics about cache lookups and summarize calls.
type Observer interface {
	ObserveCacheLookup(hit bool)
	ObserveSummarize(outcome string, attempts int, duration time.Duration)
}

// Deps are the collaborators of a Pipeline. History and Observer may be nil.
type Deps struct {
	Cache        summarycache.Store
	Summarizer   summarizer.Summarizer
	Resolver     LanguageResolver
	History      HistoryStore
	Observer     Observer
	MetadataSink metadata.MetadataSink
	Logger       zerolog.Logger
}

type Pipeline struct {
	cache        summarycache.Store
	summarizer   summarizer.Summarizer
	resolver     LanguageResolver
	history      HistoryStore
	observer     Observer
	metadataSink metadata.MetadataSink
	logger       zerolog.Logger
	param        Param
}

func NewPipeline(deps Deps, param Param) *Pipeline {
	if param.SummarizeTimeout <= 0 {
		param.SummarizeTimeout = DefaultSummarizeTimeout
	}
	if deps.MetadataSink == nil {
		deps.MetadataSink = &metadata.NoopSink{}
	}
	if deps.Observer == nil {
		deps.Observer = noopObserver{}
	}
	return &Pipeline{
		cache:        deps.Cache,
		summarizer:   deps.Summarizer,
		resolver:     deps.Resolver,
		history:      deps.History,
		observer:     deps.Observer,
		metadataSink: deps.MetadataSink,
		logger:       deps.Logger.With().Str("cmp", "pipeline").Logger(),
		param:        param,
	}
}

// Summarize returns a summary of text shaped by opts, from the cache when
// possible. When save is true and a history store is configured, a freshly
// generated summary is also saved; a failed save is logged and does not
// fail the call.
func (p *Pipeline) Summarize(
	ctx context.Context,
	text string,
	opts summarizer.Options,
	save bool,
) (Result, failure.ClassifiedError) {
	callerMethod := "Pipeline.Summarize"
	startTime := time.Now()

	if strings.TrimSpace(text) == "" {
		return Result{}, p.fail(callerMethod, &PipelineError{
			Retryable: false,
			Cause:     ErrCauseEmptyInput,
		})
	}
	if err := opts.Validate(); err != nil {
		return Result{}, p.fail(callerMethod, &PipelineError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseInvalidOptions,
			Err:       err,
		})
	}

	cacheOpts := toCacheOptions(opts)
	key := p.cache.Key(text, cacheOpts)
	summary, hit := p.cache.Get(text, cacheOpts)
	p.metadataSink.RecordCacheLookup(key, hit, p.cache.Stats().Size)
	p.observer.ObserveCacheLookup(hit)

	if hit {
		p.logger.Debug().Str("key", key).Msg("summary served from cache")
		duration := time.Since(startTime)
		p.metadataSink.RecordSummarize(metadata.SummarizeEvent{
			FromCache: true,
			Duration:  duration,
			InputLen:  len(text),
			OutputLen: len(summary),
		})
		p.observer.ObserveSummarize(OutcomeCached, 0, duration)
		return Result{Summary: summary, FromCache: true}, nil
	}

	language := p.resolver.Resolve(ctx, text)
	req := summarizer.Request{
		Type:          opts.Type,
		Format:        opts.Format,
		Length:        opts.Length,
		SharedContext: SharedContext(language, opts.Context),
	}

	result := retry.Retry(ctx, p.param.RetryParam, func(ctx context.Context) (string, failure.ClassifiedError) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.param.SummarizeTimeout)
		defer cancel()
		return p.summarizer.Summarize(attemptCtx, text, req)
	})

	if result.IsFailure() {
		p.observer.ObserveSummarize(OutcomeFailed, result.Attempts(), time.Since(startTime))
		return Result{}, p.fail(callerMethod, &PipelineError{
			Message:   result.Err().Error(),
			Retryable: result.Err().Severity() == failure.SeverityRecoverable,
			Cause:     ErrCauseSummarizeFailed,
			Err:       result.Err(),
		})
	}

	summary = result.Value()
	if strings.TrimSpace(summary) == "" {
		p.observer.ObserveSummarize(OutcomeFailed, result.Attempts(), time.Since(startTime))
		return Result{}, p.fail(callerMethod, &PipelineError{
			Retryable: false,
			Cause:     ErrCauseNoResult,
		})
	}

	p.cache.Set(text, cacheOpts, summary)

	out := Result{
		Summary:  summary,
		Language: language,
		Attempts: result.Attempts(),
	}

	if save && p.history != nil {
		analysis, err := p.history.Save(text, summary, toHistoryOptions(opts))
		if err != nil {
			p.logger.Warn().Err(err).Msg("failed to save analysis to history")
		} else {
			out.AnalysisID = analysis.ID
		}
	}

	duration := time.Since(startTime)
	p.metadataSink.RecordSummarize(metadata.SummarizeEvent{
		Language:  language,
		Attempts:  result.Attempts(),
		Duration:  duration,
		InputLen:  len(text),
		OutputLen: len(summary),
	})
	p.observer.ObserveSummarize(OutcomeSuccess, result.Attempts(), duration)

	return out, nil
}

// CacheKey returns the cache key text and opts are stored under.
func (p *Pipeline) CacheKey(text string, opts summarizer.Options) string {
	return p.cache.Key(text, toCacheOptions(opts))
}

// CacheStats exposes the cache snapshot for reporting.
func (p *Pipeline) CacheStats() summarycache.Stats {
	return p.cache.Stats()
}

func (p *Pipeline) fail(callerMethod string, err *PipelineError) *PipelineError {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrField, string(err.Cause)),
	}
	if status := statusCode(err); status != 0 {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(status)))
	}
	p.metadataSink.RecordError(
		time.Now(),
		"pipeline",
		callerMethod,
		mapPipelineErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
	return err
}

func statusCode(err error) int {
	var se *summarizer.SummarizeError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

type noopObserver struct{}

func (noopObserver) ObserveCacheLookup(bool) {}

func (noopObserver) ObserveSummarize(string, int, time.Duration) {}

func toCacheOptions(opts summarizer.Options) summarycache.Options {
	return summarycache.Options{
		Type:    string(opts.Type),
		Format:  string(opts.Format),
		Length:  string(opts.Length),
		Context: opts.Context,
	}
}

func toHistoryOptions(opts summarizer.Options) history.Options {
	return history.Options{
		Type:    string(opts.Type),
		Format:  string(opts.Format),
		Length:  string(opts.Length),
		Context: opts.Context,
	}
}
