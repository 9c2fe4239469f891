package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/confract/internal/config"
	"github.com/kirillkom/confract/internal/core/usecase"
	"github.com/kirillkom/confract/internal/infrastructure/chunking"
	"github.com/kirillkom/confract/internal/infrastructure/embedcache"
	"github.com/kirillkom/confract/internal/infrastructure/embedding/ollama"
	"github.com/kirillkom/confract/internal/infrastructure/extractor"
	"github.com/kirillkom/confract/internal/infrastructure/queue/nats"
	"github.com/kirillkom/confract/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/confract/internal/infrastructure/resilience"
	"github.com/kirillkom/confract/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/confract/internal/observability/metrics"
)

// Options carries optional collaborators. A nil Metrics disables pipeline metrics.
type Options struct {
	Metrics *metrics.PipelineMetrics
}

// Pipeline is the storage-free core shared by every binary.
type Pipeline struct {
	Ollama    *ollama.Client
	Embedder  *embedcache.Cache
	Processor *usecase.ProcessUseCase
	Detector  *usecase.DetectMatchUseCase
	Executor  *resilience.Executor
}

func NewPipeline(cfg config.Config, opts Options) *Pipeline {
	var executorOpts []resilience.Option
	var cacheOpts []embedcache.Option
	if opts.Metrics != nil {
		executorOpts = append(executorOpts, resilience.WithObserver(opts.Metrics))
		cacheOpts = append(cacheOpts, embedcache.WithRecorder(opts.Metrics))
	}
	executor := resilience.NewExecutor(ResilienceConfig(cfg), executorOpts...)

	client := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaEmbedModel, ollama.Options{
		Timeout:            time.Duration(cfg.EmbedTimeoutSeconds) * time.Second,
		BatchSize:          cfg.EmbedBatchSize,
		ResilienceExecutor: executor,
	})
	embedder := embedcache.New(ollama.NewEmbedder(client), cacheOpts...)

	return &Pipeline{
		Ollama:    client,
		Embedder:  embedder,
		Processor: usecase.NewProcessUseCase(chunking.NewSegmenter(), embedder),
		Detector:  usecase.NewDetectMatchUseCase(embedder),
		Executor:  executor,
	}
}

func ResilienceConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:    cfg.ResilienceRetryMaxAttempts,
		RetryInitialBackoff: time.Duration(cfg.ResilienceRetryInitialBackoffMS) * time.Millisecond,
		RetryMaxBackoff:     time.Duration(cfg.ResilienceRetryMaxBackoffMS) * time.Millisecond,
		RetryMultiplier:     cfg.ResilienceRetryMultiplier,

		BreakerEnabled:          cfg.ResilienceBreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.ResilienceBreakerMinRequests, 0)),
		BreakerFailureRatio:     cfg.ResilienceBreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.ResilienceBreakerOpenTimeoutSec) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(max(cfg.ResilienceBreakerHalfOpenCalls, 0)),
	}
}

// OpenDocuments connects to Postgres and returns the document service with a closer.
func OpenDocuments(ctx context.Context, cfg config.Config) (*usecase.DocumentUseCase, *sql.DB, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return usecase.NewDocumentUseCase(repo, cfg.VersionHistoryLimit), db, nil
}

type App struct {
	Config   config.Config
	Pipeline *Pipeline

	Queue       *nats.Queue
	Storage     *localfs.Storage
	Documents   *usecase.DocumentUseCase
	Submit      *usecase.SubmitUseCase
	Submissions *usecase.SubmissionUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	pipeline := NewPipeline(cfg, opts)

	documents, db, err := OpenDocuments(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: pipeline.Executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	textExtractor := extractor.New(storage, cfg.MaxUploadBytes)

	return &App{
		Config:   cfg,
		Pipeline: pipeline,

		Queue:       queue,
		Storage:     storage,
		Documents:   documents,
		Submit:      usecase.NewSubmitUseCase(storage, queue),
		Submissions: usecase.NewSubmissionUseCase(textExtractor, pipeline.Processor, pipeline.Detector, documents, cfg.DetectInputMaxChars),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
