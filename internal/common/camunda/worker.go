// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"copywriter/internal/common/config"
	"copywriter/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the job callback shape the Zeebe client expects.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Instrument wraps h with the worker gauges and duration histogram.
func Instrument(taskType string, h HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()
		h(client, job)
	}
}

// Pool owns the job workers opened against one client.
type Pool struct {
	client  zbc.Client
	logger  *zap.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewPool(client zbc.Client, logger *zap.Logger) *Pool {
	return &Pool{client: client, logger: logger, workers: make(map[string]worker.JobWorker)}
}

// Start opens a worker for taskType unless it is disabled. Starting the same
// task type twice is a no-op.
func (p *Pool) Start(taskType string, wcfg config.WorkerConfig, h HandlerFunc) bool {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", zap.String("taskType", taskType))
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.workers[taskType]; exists {
		return false
	}

	p.workers[taskType] = p.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, h))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	p.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return true
}

// Close stops every worker and waits for in-flight jobs.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for taskType, w := range p.workers {
		p.logger.Info("stopping worker", zap.String("taskType", taskType))
		w.Close()
		w.AwaitClose()
	}
	p.workers = make(map[string]worker.JobWorker)
}
