package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kirillkom/confract/internal/config"
	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/observability/metrics"
)

const (
	defaultMaxBodyBytes = 2 << 20
	defaultDetectRunes  = 600
	serviceName         = "api"
)

// HealthChecker reports on the embedding backend.
type HealthChecker interface {
	Model() string
	Ping(ctx context.Context) error
}

// PipelineRecorder observes pipeline runs served over HTTP.
type PipelineRecorder interface {
	RecordProcess(result *domain.ProcessResult, merged bool, duration time.Duration, err error)
	RecordDetect(confidence domain.Confidence)
}

// Dependencies are the inbound ports served by the router. Health, Metrics and
// Pipeline are optional.
type Dependencies struct {
	Processor   ports.Processor
	Detector    ports.MatchDetector
	Documents   ports.DocumentService
	Submissions ports.SubmissionIngestor

	Health   HealthChecker
	Metrics  *metrics.HTTPServerMetrics
	Pipeline PipelineRecorder
}

type Router struct {
	processor   ports.Processor
	detector    ports.MatchDetector
	documents   ports.DocumentService
	submissions ports.SubmissionIngestor
	health      HealthChecker
	metrics     *metrics.HTTPServerMetrics
	pipeline    PipelineRecorder

	apiKey              string
	detectMaxRunes      int
	maxBodyBytes        int64
	maxUploadBytes      int64
	rateLimitRPS        float64
	rateLimitBurst      int
	maxInFlight         int
	backpressureTimeout time.Duration
}

func NewRouter(cfg config.Config, deps Dependencies) *Router {
	detectMaxRunes := cfg.DetectInputMaxChars
	if detectMaxRunes <= 0 {
		detectMaxRunes = defaultDetectRunes
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Router{
		processor:   deps.Processor,
		detector:    deps.Detector,
		documents:   deps.Documents,
		submissions: deps.Submissions,
		health:      deps.Health,
		metrics:     deps.Metrics,
		pipeline:    deps.Pipeline,

		apiKey:              cfg.APIKey,
		detectMaxRunes:      detectMaxRunes,
		maxBodyBytes:        defaultMaxBodyBytes,
		maxUploadBytes:      maxUpload,
		rateLimitRPS:        cfg.APIRateLimitRPS,
		rateLimitBurst:      cfg.APIRateLimitBurst,
		maxInFlight:         cfg.APIMaxInFlight,
		backpressureTimeout: time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/process", rt.process)
	mux.HandleFunc("POST /v1/detect", rt.detect)

	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("POST /v1/documents", rt.createDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("DELETE /v1/documents/{id}", rt.deleteDocument)
	mux.HandleFunc("POST /v1/documents/{id}/merge", rt.mergeDocument)
	mux.HandleFunc("POST /v1/documents/{id}/preview", rt.previewDocument)
	mux.HandleFunc("POST /v1/documents/{id}/revert", rt.revertDocument)
	mux.HandleFunc("POST /v1/documents/{id}/restore", rt.restoreItem)
	mux.HandleFunc("GET /v1/documents/{id}/export", rt.exportDocument)

	mux.HandleFunc("POST /v1/submissions", rt.submit)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureTimeout, rt.onOverloaded)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst, rt.onRateLimited)
	handler = apiKeyMiddleware(handler, rt.apiKey)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) onRateLimited() {
	if rt.metrics != nil {
		rt.metrics.RecordRateLimited(serviceName)
	}
}

func (rt *Router) onOverloaded() {
	if rt.metrics != nil {
		rt.metrics.RecordOverloaded(serviceName)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "service": "confract"}
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp["model"] = rt.health.Model()
		resp["ready"] = rt.health.Ping(ctx) == nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
