package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/confract/internal/core/domain"
)

const namespace = "confract"

// PipelineMetrics covers the structuring pipeline and its outbound dependencies. It
// implements the embedding cache recorder and the resilience observer.
type PipelineMetrics struct {
	service string

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	overlaps        *prometheus.HistogramVec
	detectTotal     *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	retriesTotal    *prometheus.CounterVec
	breakerOpen     *prometheus.GaugeVec
}

func NewPipelineMetrics(service string, registerer prometheus.Registerer) *PipelineMetrics {
	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "process_total",
			Help:      "Pipeline runs by detected content type and status.",
		},
		[]string{"service", "detected_type", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "process_duration_seconds",
			Help:      "Pipeline run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	overlaps := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "overlaps",
			Help:      "Items dropped as duplicates per merge-aware run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	detectTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "detect_total",
			Help:      "Document match detections by confidence.",
		},
		[]string{"service", "confidence"},
	)
	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding_cache",
			Name:      "lookups_total",
			Help:      "Embedding cache lookups by result.",
		},
		[]string{"service", "result"},
	)
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Retried outbound calls by operation.",
		},
		[]string{"service", "operation"},
	)
	breakerOpen := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 while the circuit breaker of an operation is not closed.",
		},
		[]string{"service", "operation"},
	)

	registerer.MustRegister(processTotal, processDuration, overlaps, detectTotal, cacheLookups, retriesTotal, breakerOpen)

	return &PipelineMetrics{
		service:         service,
		processTotal:    processTotal,
		processDuration: processDuration,
		overlaps:        overlaps,
		detectTotal:     detectTotal,
		cacheLookups:    cacheLookups,
		retriesTotal:    retriesTotal,
		breakerOpen:     breakerOpen,
	}
}

// RecordProcess observes one pipeline run. result may be nil when err is set.
func (m *PipelineMetrics) RecordProcess(result *domain.ProcessResult, merged bool, duration time.Duration, err error) {
	m.processDuration.WithLabelValues(m.service).Observe(duration.Seconds())
	if err != nil || result == nil {
		m.processTotal.WithLabelValues(m.service, "unknown", "error").Inc()
		return
	}
	m.processTotal.WithLabelValues(m.service, result.DetectedType, "success").Inc()
	if merged {
		m.overlaps.WithLabelValues(m.service).Observe(float64(result.OverlapCount))
	}
}

func (m *PipelineMetrics) RecordDetect(confidence domain.Confidence) {
	m.detectTotal.WithLabelValues(m.service, string(confidence)).Inc()
}

func (m *PipelineMetrics) RecordEmbeddingCacheHit() {
	m.cacheLookups.WithLabelValues(m.service, "hit").Inc()
}

func (m *PipelineMetrics) RecordEmbeddingCacheMiss() {
	m.cacheLookups.WithLabelValues(m.service, "miss").Inc()
}

func (m *PipelineMetrics) ObserveRetry(operation string) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *PipelineMetrics) ObserveBreakerState(operation, state string) {
	value := 1.0
	if state == "closed" {
		value = 0
	}
	m.breakerOpen.WithLabelValues(m.service, operation).Set(value)
}
