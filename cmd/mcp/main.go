package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/confract/internal/adapters/mcp"
	"github.com/kirillkom/confract/internal/bootstrap"
	"github.com/kirillkom/confract/internal/config"
	"github.com/kirillkom/confract/internal/observability/logging"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	// stdout carries the MCP protocol.
	logger := logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := bootstrap.NewPipeline(cfg, bootstrap.Options{})
	tools := mcpadapter.Tools{
		Processor:      pipeline.Processor,
		Detector:       pipeline.Detector,
		DetectMaxRunes: cfg.DetectInputMaxChars,
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	documents, db, err := bootstrap.OpenDocuments(connectCtx, cfg)
	cancel()
	if err != nil {
		logger.Warn("document_store_unavailable", "error", err)
	} else {
		defer db.Close()
		tools.Documents = documents
	}

	srv := mcpadapter.NewServer("confract", version, tools)
	logger.Info("mcp_serving_stdio", "embed_model", cfg.OllamaEmbedModel, "documents", tools.Documents != nil)
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp_serve_failed", "error", err)
		os.Exit(1)
	}
}
