// internal/workers/application/update-application-status/handler_test.go
package updateapplicationstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobtrack/internal/common/config"
	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"
	"jobtrack/internal/services/applications"
	"jobtrack/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) Update(ctx context.Context, userID, id int64, in applications.UpdateInput) (*models.ApplicationDetail, error) {
	args := m.Called(ctx, userID, id, in)
	if d, ok := args.Get(0).(*models.ApplicationDetail); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestHandler(t *testing.T, apps ApplicationUpdater) *Handler {
	reg, err := registry.Default()
	require.NoError(t, err)
	return NewHandler(LoadConfig(reg, config.WorkerConfig{}), apps, &testLogger{t: t})
}

func strPtr(s string) *string { return &s }

func detail() *models.ApplicationDetail {
	return &models.ApplicationDetail{
		Application: models.Application{
			ID:          7,
			JobTitle:    "Backend Engineer",
			Status:      models.StatusInterview,
			AppliedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			CompanyID:   3,
			UserID:      1,
		},
		Company: models.Company{ID: 3, Name: "Acme", UserID: 1},
	}
}

// ==========================
// Configuration
// ==========================

func TestLoadConfig(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	cfg := LoadConfig(reg, config.WorkerConfig{})
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.InputSchema)
	assert.NotEmpty(t, cfg.OutputSchema)

	cfg = LoadConfig(reg, config.WorkerConfig{Timeout: 2000})
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	cfg = LoadConfig(nil, config.WorkerConfig{})
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.InputSchema)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, &MockUpdater{})

	input, err := h.ParseInput(`{"userId": 1, "applicationId": 7, "status": "Interview"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), input.UserID)
	assert.Equal(t, int64(7), input.ApplicationID)
	assert.Equal(t, "Interview", *input.Status)
	assert.Nil(t, input.Notes)

	tests := []struct {
		name      string
		variables string
	}{
		{"not json", `not-json`},
		{"missing application", `{"userId": 1}`},
		{"zero user", `{"userId": 0, "applicationId": 7}`},
		{"empty status", `{"userId": 1, "applicationId": 7, "status": ""}`},
		{"fractional id", `{"userId": 1, "applicationId": 7.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.ParseInput(tt.variables)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	apps := &MockUpdater{}
	h := newTestHandler(t, apps)

	apps.On("Update", mock.Anything, int64(1), int64(7), applications.UpdateInput{
		Status: strPtr("Interview"),
	}).Return(detail(), nil).Once()

	out, err := h.Execute(context.Background(), &Input{
		UserID:        1,
		ApplicationID: 7,
		Status:        strPtr("Interview"),
	})

	require.NoError(t, err)
	assert.Equal(t, &Output{
		ApplicationID: 7,
		JobTitle:      "Backend Engineer",
		Status:        "Interview",
		CompanyID:     3,
		CompanyName:   "Acme",
		AppliedDate:   "2024-03-01",
	}, out)
	assert.NoError(t, validation.CheckOutput(h.config.OutputSchema, out))
	apps.AssertExpectations(t)
}

func TestOutput_RejectedByOutputSchema(t *testing.T) {
	h := newTestHandler(t, &MockUpdater{})

	err := validation.CheckOutput(h.config.OutputSchema, &Output{JobTitle: "Backend Engineer", Status: "Offer"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
	assert.Contains(t, err.(*apperrors.StandardError).Details, "applicationId")
}

func TestHandler_Execute_PropagatesStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"not found", apperrors.NewNotFoundError("application", int64(7)), apperrors.ErrCodeNotFound},
		{"conflict", apperrors.NewTransactionConflictError(errors.New("40001")), apperrors.ErrCodeTransactionConflict},
		{"validation", apperrors.NewValidationError("unknown status"), apperrors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &MockUpdater{}
			h := newTestHandler(t, apps)
			apps.On("Update", mock.Anything, int64(1), int64(7), mock.Anything).Return(nil, tt.err).Once()

			out, err := h.Execute(context.Background(), &Input{UserID: 1, ApplicationID: 7})

			assert.Nil(t, out)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestHandler_Execute_RejectsMissingIDs(t *testing.T) {
	apps := &MockUpdater{}
	h := newTestHandler(t, apps)

	_, err := h.Execute(context.Background(), &Input{UserID: 1})

	assert.True(t, apperrors.IsValidation(err))
	apps.AssertNotCalled(t, "Update")
}

// ==========================
// Error Routing Tests
// ==========================

func TestHandler_ErrorRouting(t *testing.T) {
	h := newTestHandler(t, &MockUpdater{})
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: TaskType, Retries: 3}}

	throw, _ := h.errors.Decide(job, apperrors.NewNotFoundError("application", int64(7)))
	assert.True(t, throw, "a missing application is a business error")

	throw, retries := h.errors.Decide(job, apperrors.NewTransactionConflictError(errors.New("40001")))
	assert.False(t, throw)
	assert.Equal(t, int32(2), retries)
}
