// internal/workers/copywriting/generate-copy/handler.go
package generatecopy

import (
	"context"
	"fmt"

	"copywriter/internal/common/config"
	"copywriter/internal/common/errors"
	"copywriter/internal/common/logger"
	"copywriter/internal/common/metrics"
	"copywriter/internal/common/observability"
	"copywriter/internal/common/validation"
	"copywriter/internal/copywriting"
	"copywriter/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-copy"

// Generator is the part of copywriting.Service this worker calls.
type Generator interface {
	Generate(ctx context.Context, source string, req models.GenerateRequest) (*models.GenerateResponse, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	generator    Generator
	schema       *validation.Schema
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Generator     Generator
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("%s: generator is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	maxName, maxPoints := 200, 2000
	if opts.AppConfig != nil {
		maxName = opts.AppConfig.Generation.MaxProductNameLength
		maxPoints = opts.AppConfig.Generation.MaxSellingPointLength
	}

	return &Handler{
		config:       workerConfig,
		logger:       log,
		generator:    opts.Generator,
		schema:       validation.GenerateSchema(maxName, maxPoints),
		errorHandler: errors.NewErrorHandler(log),
		obs:          opts.Observability,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			return
		}
	}

	code := string(errors.AsStandardError(err).Code)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// parseInput validates the job variables before decoding them.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse variables: %v", err))
	}

	result, err := h.schema.Validate(variables)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(result.Summary())
	}

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return &input, nil
}

// Execute runs one generation outside the job plumbing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.generator.Generate(ctx, copywriting.SourceJob, input.request())
	if err != nil {
		return nil, err
	}
	return outputFrom(resp), nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"mode":        output.Mode,
		"style":       output.Style,
		"productType": output.ProductType,
	})
}

func (h *Handler) GetTaskType() string { return TaskType }

func (h *Handler) GetConfig() *Config { return h.config }
