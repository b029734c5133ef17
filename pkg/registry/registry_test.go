package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobtrack/internal/common/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ListsEveryWorker(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, taskType := range []string{"create-application-record", "update-application-status", "build-dashboard-summary"} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.InputSchema)
		assert.NotEmpty(t, a.OutputSchema)
		assert.NotEmpty(t, a.ErrorCodes)
		assert.Equal(t, "implemented", a.ImplementationStatus)
	}

	_, ok := reg.Find("send-notification")
	assert.False(t, ok)
}

func TestDefault_InputSchemasValidate(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	a, _ := reg.Find("update-application-status")

	ok, err := validation.ValidateAgainstSchema(a.InputSchema, map[string]interface{}{
		"userId": 1, "applicationId": 7, "status": "Interview",
	})
	require.NoError(t, err)
	assert.True(t, ok.Valid)

	bad, err := validation.ValidateAgainstSchema(a.InputSchema, map[string]interface{}{
		"userId": 1, "status": "",
	})
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.True(t, bad.HasErrors("(root)"))
	assert.True(t, bad.HasErrors("status"))
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"taskType":"x","timeout":"bogus"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	a, ok := reg.Find("x")
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, a.TimeoutDuration(5*time.Second))

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	builtin, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Len(t, builtin.Activities, 3)
}

func TestValidate(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.NoError(t, reg.Validate())

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"duplicate", ActivityRegistry{Activities: []Activity{
			{ID: "a", TaskType: "a", Category: "x"},
			{ID: "a", TaskType: "b", Category: "x"},
		}}, "duplicate activity ID: a"},
		{"no task type", ActivityRegistry{Activities: []Activity{{ID: "a", Category: "x"}}}, "TaskType"},
		{"bad timeout", ActivityRegistry{Activities: []Activity{{ID: "a", TaskType: "a", Category: "x", Timeout: "soon"}}}, "invalid timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
