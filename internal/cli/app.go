package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohmanhakim/docuprism/internal/config"
	"github.com/rohmanhakim/docuprism/internal/document"
	"github.com/rohmanhakim/docuprism/internal/history"
	"github.com/rohmanhakim/docuprism/internal/langdetect"
	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/internal/metrics"
	"github.com/rohmanhakim/docuprism/internal/pipeline"
	"github.com/rohmanhakim/docuprism/internal/storage"
	"github.com/rohmanhakim/docuprism/internal/summarizer"
	"github.com/rohmanhakim/docuprism/internal/summarycache"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/logutils"
	"github.com/rs/zerolog"
)

/*
Composition root

One app is built per command invocation. It owns the single summary
cache of the process and hands it by reference to the pipeline.
*/
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	closeLog func()

	recorder *metadata.Recorder
	cache    *summarycache.Cache
	metrics  *metrics.Metrics
	client   *summarizer.HTTPClient
	resolver *langdetect.Resolver
	history  *history.Store
	loader   *document.Loader
	storage  storage.LocalSink
	pipeline *pipeline.Pipeline
}

func newApp(cfg config.Config) (*app, error) {
	logger, closeLog, err := logutils.New(cfg.LogLevel(), cfg.LogFile())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	recorder := metadata.NewRecorder(logger, uuid.NewString())
	cache := summarycache.New()
	appMetrics := metrics.New(metrics.DefaultNamespace, cache.Stats)

	client := summarizer.NewHTTPClient(
		cfg.APIBaseURL(),
		cfg.Model(),
		cfg.APIKey(),
		&http.Client{},
		logger,
	).WithPacer(cfg.RateLimiter())

	resolver := langdetect.NewResolver(
		langdetect.DetectorFunc(client.DetectLanguage),
		cfg.Offline(),
		cfg.LanguageTimeout(),
		logger,
		recorder,
	)

	store := history.NewStore(cfg.DataDir(), history.Param{
		MaxAnalyses:   cfg.MaxAnalyses(),
		PreviewLength: cfg.PreviewLength(),
	}, recorder)

	p := pipeline.NewPipeline(pipeline.Deps{
		Cache:        cache,
		Summarizer:   client,
		Resolver:     resolver,
		History:      store,
		Observer:     appMetrics,
		MetadataSink: recorder,
		Logger:       logger,
	}, pipeline.Param{
		SummarizeTimeout: cfg.SummarizeTimeout(),
		RetryParam:       cfg.RetryParam(),
	})

	return &app{
		cfg:      cfg,
		logger:   logutils.Component(logger, "cli"),
		closeLog: closeLog,
		recorder: recorder,
		cache:    cache,
		metrics:  appMetrics,
		client:   client,
		resolver: resolver,
		history:  store,
		loader:   document.NewLoader(cfg.MaxFileSize(), recorder),
		storage:  storage.NewLocalSink(recorder),
		pipeline: p,
	}, nil
}

// close flushes metrics to the configured textfile and releases the log file.
func (a *app) close() {
	if path := a.cfg.MetricsFile(); path != "" {
		if err := a.metrics.WriteToTextfile(path); err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("failed to write metrics")
		} else {
			a.recorder.RecordArtifact(metadata.ArtifactMetrics, path, nil)
		}
	}
	a.closeLog()
}

// loadDocument reads path, or stdin when path is "-".
func (a *app) loadDocument(stdin io.Reader, path string) (document.Document, failure.ClassifiedError) {
	if path != "-" {
		return a.loader.Load(path)
	}
	data, err := io.ReadAll(io.LimitReader(stdin, a.cfg.MaxFileSize()+1))
	if err != nil {
		return document.Document{}, &document.DocumentError{
			Message:   fmt.Sprintf("Failed to read standard input: %v", err),
			Retryable: false,
			Cause:     document.ErrCauseReadFailed,
			Path:      path,
		}
	}
	return a.loader.Parse(path, data)
}

func withApp(run func(a *app) error) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()
	return run(a)
}
