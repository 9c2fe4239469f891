package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/confract/internal/bootstrap"
	"github.com/kirillkom/confract/internal/config"
	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/observability/logging"
	"github.com/kirillkom/confract/internal/observability/metrics"
)

const service = "worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(service)
	pipelineMetrics := metrics.NewPipelineMetrics(service, workerMetrics.Registry())

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Metrics: pipelineMetrics})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(workerMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	timeout := time.Duration(cfg.WorkerProcessTimeoutSeconds) * time.Second
	logger.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeSubmissions(ctx, func(handlerCtx context.Context, sub domain.Submission) error {
		if !sub.CreatedAt.IsZero() {
			workerMetrics.ObserveQueueLag(service, time.Since(sub.CreatedAt))
		}
		processCtx, cancel := context.WithTimeout(handlerCtx, timeout)
		defer cancel()

		workerMetrics.StartSubmission()
		started := time.Now()
		doc, err := app.Submissions.HandleSubmission(processCtx, sub)
		workerMetrics.FinishSubmission(service, time.Since(started), doc, err)
		if err != nil {
			return err
		}
		logger.InfoContext(processCtx, "submission_processed",
			"submission_id", sub.ID,
			"document_id", doc.ID,
			"status", metrics.SubmissionStatus(doc, nil),
			"sections", len(doc.Sections),
		)
		// Failed uploads stay on disk for inspection.
		if err := app.Storage.Delete(handlerCtx, sub.StorageKey); err != nil {
			logger.WarnContext(handlerCtx, "submission_cleanup_failed", "submission_id", sub.ID, "error", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
