// internal/workers/application/create-application-record/handler.go
package createapplicationrecord

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
	TaskType = "create-application-record"
)

type ApplicationCreator interface {
	Create(ctx context.Context, userID int64, in applications.CreateInput) (*models.ApplicationDetail, error)
}

type Handler struct {
	config *Config
	apps   ApplicationCreator
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, apps ApplicationCreator, log logger.Logger) *Handler {
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

	var input Input
	if err := validation.DecodeVariables(h.config.InputSchema, job.Variables, &input); err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// Execute creates the record. Creation never writes an activity log entry.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID <= 0 {
		return nil, apperrors.NewValidationError("userId must be positive")
	}

	detail, err := h.apps.Create(ctx, input.UserID, applications.CreateInput{
		JobTitle:  input.JobTitle,
		Status:    input.Status,
		Notes:     input.Notes,
		CompanyID: input.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId": detail.ID,
		"userId":        input.UserID,
		"companyId":     detail.CompanyID,
	})

	return &Output{
		ApplicationID:     detail.ID,
		ApplicationStatus: detail.Status.String(),
		CompanyName:       detail.Company.Name,
		AppliedDate:       detail.AppliedDate.UTC().Format("2006-01-02"),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	if err := validation.CheckOutput(h.config.OutputSchema, output); err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, apperrors.NewInternalError(err), start)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errors.HandleJobError(ctx, client, job, err)
}
