// internal/workers/analytics/build-dashboard-summary/handler.go
package builddashboardsummary

import (
	"context"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/metrics"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-dashboard-summary"
)

type DashboardBuilder interface {
	Summarize(ctx context.Context, userID int64) (*models.Dashboard, error)
}

type Handler struct {
	config    *Config
	dashboard DashboardBuilder
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, dashboard DashboardBuilder, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		dashboard: dashboard,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.ParseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}
	if err := validation.CheckOutput(h.config.OutputSchema, output); err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, apperrors.NewInternalError(err), start)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"total":  output.Total,
	})
}

func (h *Handler) ParseInput(variables string) (*Input, error) {
	var input Input
	if err := validation.DecodeVariables(h.config.InputSchema, variables, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID <= 0 {
		return nil, apperrors.NewValidationError("userId must be positive")
	}

	dash, err := h.dashboard.Summarize(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &Output{
		Total:          dash.Total,
		Offer:          dash.Offer,
		ConversionRate: dash.ConversionRate,
		Dashboard:      dash,
	}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errors.HandleJobError(ctx, client, job, err)
}
