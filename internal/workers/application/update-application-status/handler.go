// internal/workers/application/update-application-status/handler.go
package updateapplicationstatus

import (
	"context"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/metrics"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"
	"jobtrack/internal/services/applications"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-application-status"
)

// ApplicationUpdater is the slice of the application store this worker drives.
type ApplicationUpdater interface {
	Update(ctx context.Context, userID, id int64, in applications.UpdateInput) (*models.ApplicationDetail, error)
}

type Handler struct {
	config *Config
	apps   ApplicationUpdater
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, apps ApplicationUpdater, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		apps:   apps,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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

	h.completeJob(ctx, client, job, output, start)
}

// ParseInput checks the job variables against the registry schema before decoding them.
func (h *Handler) ParseInput(variables string) (*Input, error) {
	var input Input
	if err := validation.DecodeVariables(h.config.InputSchema, variables, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute applies the update through the application store, which writes the audit entry.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID <= 0 || input.ApplicationID <= 0 {
		return nil, apperrors.NewValidationError("userId and applicationId must be positive")
	}

	detail, err := h.apps.Update(ctx, input.UserID, input.ApplicationID, applications.UpdateInput{
		JobTitle:  input.JobTitle,
		Status:    input.Status,
		Notes:     input.Notes,
		CompanyID: input.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		ApplicationID: detail.ID,
		JobTitle:      detail.JobTitle,
		Status:        detail.Status.String(),
		CompanyID:     detail.CompanyID,
		CompanyName:   detail.Company.Name,
		AppliedDate:   detail.AppliedDate.UTC().Format("2006-01-02"),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
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
		"jobKey":        job.Key,
		"applicationId": output.ApplicationID,
		"status":        output.Status,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := apperrors.Normalize(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.errors.HandleJobError(ctx, client, job, err)
}
