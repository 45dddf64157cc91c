// internal/workers/copywriting/ai-generate/handler.go
package aigenerate

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

const TaskType = "ai-generate"

// Completer is the part of copywriting.Service this worker calls.
type Completer interface {
	AIGenerate(ctx context.Context, source string, req models.AIGenerateRequest) (*models.AIGenerateResponse, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	completer    Completer
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Completer     Completer
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Completer == nil {
		return nil, fmt.Errorf("%s: completer is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       log,
		completer:    opts.Completer,
		errorHandler: errors.NewErrorHandler(log),
		obs:          opts.Observability,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.process(ctx, job)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandardError(err).Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

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
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	result, err := validation.AIGenerateSchema.ValidateJSON([]byte(job.GetVariables()))
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.completer.AIGenerate(ctx, copywriting.SourceJob, models.AIGenerateRequest{
		Prompt:  input.Prompt,
		Context: input.Context,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("ai content generated", map[string]interface{}{
		"promptChars":     resp.Usage.PromptChars,
		"completionChars": resp.Usage.CompletionChars,
	})
	return &Output{
		Content:         resp.Content,
		PromptChars:     resp.Usage.PromptChars,
		CompletionChars: resp.Usage.CompletionChars,
	}, nil
}

func (h *Handler) GetTaskType() string { return TaskType }

func (h *Handler) GetConfig() *Config { return h.config }
