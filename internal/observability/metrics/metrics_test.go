package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/confract/internal/core/domain"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/v1/process":                  "/v1/process",
		"/v1/documents":                "/v1/documents",
		"/v1/documents/":               "/v1/documents/",
		"/v1/documents/abc":            "/v1/documents/{document_id}",
		"/v1/documents/abc/merge":      "/v1/documents/{document_id}/merge",
		"/v1/documents/abc/export":     "/v1/documents/{document_id}/export",
		"/v1/documents/abc/restore":    "/v1/documents/{document_id}/restore",
		"/v1/documents/abc/whatever/x": "/v1/documents/{document_id}/other",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPipelineMetricsShareHTTPRegistry(t *testing.T) {
	httpMetrics := NewHTTPServerMetrics("api")
	pipeline := NewPipelineMetrics("api", httpMetrics.Registry())

	pipeline.RecordProcess(&domain.ProcessResult{DetectedType: "Watchlist", OverlapCount: 2}, true, 10*time.Millisecond, nil)
	pipeline.RecordProcess(nil, false, time.Millisecond, errors.New("boom"))
	pipeline.RecordDetect(domain.ConfidenceHigh)
	pipeline.RecordEmbeddingCacheHit()
	pipeline.RecordEmbeddingCacheMiss()
	pipeline.ObserveRetry("ollama.embed")
	pipeline.ObserveBreakerState("ollama.embed", "open")

	handler := httpMetrics.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1", nil))

	rec := httptest.NewRecorder()
	httpMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`confract_pipeline_process_total{detected_type="Watchlist",service="api",status="success"} 1`,
		`confract_pipeline_process_total{detected_type="unknown",service="api",status="error"} 1`,
		`confract_pipeline_detect_total{confidence="high",service="api"} 1`,
		`confract_embedding_cache_lookups_total{result="hit",service="api"} 1`,
		`confract_resilience_breaker_open{operation="ollama.embed",service="api"} 1`,
		`confract_http_requests_total{method="GET",path="/v1/documents/{document_id}",service="api",status="418"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q\n%s", want, body)
		}
	}
}

func TestWorkerMetrics(t *testing.T) {
	m := NewWorkerMetrics("worker")
	m.StartSubmission()
	m.FinishSubmission("worker", 20*time.Millisecond, &domain.Document{ID: "doc-1"}, nil)
	m.StartSubmission()
	m.FinishSubmission("worker", 20*time.Millisecond, nil, errors.New("boom"))
	m.ObserveQueueLag("worker", -time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`confract_worker_submission_process_total{service="worker",status="created"} 1`,
		`confract_worker_submission_process_total{service="worker",status="error"} 1`,
		`confract_worker_submission_process_in_flight{service="worker"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %s in:\n%s", want, body)
		}
	}
	if strings.Contains(body, "confract_worker_queue_lag_seconds_count") {
		t.Fatalf("negative lag must be ignored:\n%s", body)
	}
}

func TestSubmissionStatus(t *testing.T) {
	merged := &domain.Document{Versions: []domain.Version{{Label: "Before merge"}}}
	if got := SubmissionStatus(merged, nil); got != "merged" {
		t.Fatalf("expected merged, got %q", got)
	}
	if got := SubmissionStatus(&domain.Document{}, nil); got != "created" {
		t.Fatalf("expected created, got %q", got)
	}
	if got := SubmissionStatus(merged, errors.New("boom")); got != "error" {
		t.Fatalf("expected error, got %q", got)
	}
}
