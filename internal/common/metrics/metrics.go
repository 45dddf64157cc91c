// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CopyGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copy_generations_total",
			Help: "Copy generations served, by mode actually used, style and product type",
		},
		[]string{"mode", "style", "product_type"},
	)

	CopyGenerationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copy_generation_fallbacks_total",
			Help: "AI generations that fell back to the template engine",
		},
		[]string{"reason"},
	)

	CopyGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copy_generation_duration_seconds",
			Help:    "Duration of a copy generation in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Register, login and logout attempts by outcome",
		},
		[]string{"event", "outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// ObserveGeneration records one served generation.
func ObserveGeneration(mode, style, productType string, elapsed time.Duration) {
	CopyGenerations.WithLabelValues(mode, style, productType).Inc()
	CopyGenerationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func ObserveFallback(reason string) {
	CopyGenerationFallbacks.WithLabelValues(reason).Inc()
}

func ObserveAuth(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}
