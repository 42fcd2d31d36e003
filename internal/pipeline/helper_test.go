package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rohmanhakim/docuprism/internal/history"
	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/internal/pipeline"
	"github.com/rohmanhakim/docuprism/internal/summarizer"
	"github.com/rohmanhakim/docuprism/internal/summarycache"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/retry"
	"github.com/rohmanhakim/docuprism/pkg/timeutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

// summarizerMock is a testify mock for summarizer.Summarizer
type summarizerMock struct {
	mock.Mock
}

func (m *summarizerMock) Summarize(ctx context.Context, text string, req summarizer.Request) (string, failure.ClassifiedError) {
	args := m.Called(ctx, text, req)
	var err failure.ClassifiedError
	if e := args.Get(1); e != nil {
		err = e.(failure.ClassifiedError)
	}
	return args.String(0), err
}

// summarizerFunc adapts a function for tests that need to inspect ctx.
type summarizerFunc func(ctx context.Context, text string, req summarizer.Request) (string, failure.ClassifiedError)

func (f summarizerFunc) Summarize(ctx context.Context, text string, req summarizer.Request) (string, failure.ClassifiedError) {
	return f(ctx, text, req)
}

// historyMock is a testify mock for pipeline.HistoryStore
type historyMock struct {
	mock.Mock
}

func (m *historyMock) Save(inputText string, summary string, opts history.Options) (history.Analysis, failure.ClassifiedError) {
	args := m.Called(inputText, summary, opts)
	var err failure.ClassifiedError
	if e := args.Get(1); e != nil {
		err = e.(failure.ClassifiedError)
	}
	return args.Get(0).(history.Analysis), err
}

type resolverStub struct {
	mu       sync.Mutex
	language string
	calls    int
}

func (r *resolverStub) Resolve(ctx context.Context, text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.language
}

type observerStub struct {
	hits     int
	misses   int
	outcomes []string
}

func (o *observerStub) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *observerStub) ObserveSummarize(outcome string, attempts int, duration time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

// sinkStub captures error causes and summarize events.
type sinkStub struct {
	metadata.NoopSink
	causes  []metadata.ErrorCause
	lookups []bool
	events  []metadata.SummarizeEvent
}

func (s *sinkStub) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	errorString string,
	attrs []metadata.Attribute,
) {
	s.causes = append(s.causes, cause)
}

func (s *sinkStub) RecordCacheLookup(key string, hit bool, size int) {
	s.lookups = append(s.lookups, hit)
}

func (s *sinkStub) RecordSummarize(event metadata.SummarizeEvent) {
	s.events = append(s.events, event)
}

type fixture struct {
	pipeline   *pipeline.Pipeline
	cache      *summarycache.Cache
	summarizer summarizer.Summarizer
	resolver   *resolverStub
	history    *historyMock
	observer   *observerStub
	sink       *sinkStub
}

func testRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		time.Millisecond,
		0,
		1,
		maxAttempts,
		timeutil.NewBackoffParam(time.Millisecond, 2, 5*time.Millisecond),
	)
}

func newFixture(t *testing.T, s summarizer.Summarizer, param pipeline.Param) *fixture {
	t.Helper()
	f := &fixture{
		cache:      summarycache.New(),
		summarizer: s,
		resolver:   &resolverStub{language: "English"},
		history:    new(historyMock),
		observer:   &observerStub{},
		sink:       &sinkStub{},
	}
	if param.RetryParam.MaxAttempts == 0 {
		param.RetryParam = testRetryParam(3)
	}
	f.pipeline = pipeline.NewPipeline(pipeline.Deps{
		Cache:        f.cache,
		Summarizer:   s,
		Resolver:     f.resolver,
		History:      f.history,
		Observer:     f.observer,
		MetadataSink: f.sink,
		Logger:       zerolog.Nop(),
	}, param)
	return f
}

func tldr() summarizer.Options {
	return summarizer.Options{
		Type:   summarizer.TypeTLDR,
		Format: summarizer.FormatMarkdown,
		Length: summarizer.LengthShort,
	}
}

func pipelineCacheOptions(opts summarizer.Options) summarycache.Options {
	return summarycache.Options{
		Type:    string(opts.Type),
		Format:  string(opts.Format),
		Length:  string(opts.Length),
		Context: opts.Context,
	}
}

func testBackoff(initial time.Duration) timeutil.BackoffParam {
	return timeutil.NewBackoffParam(initial, 2, 10*initial)
}
