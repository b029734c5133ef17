package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWaitFor_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := WaitFor(context.Background(), "redis connection", 0, func() error {
		calls++
		return errors.New("connection refused")
	}, zap.NewNop())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis connection failed after 1 attempts")
	assert.Equal(t, 1, calls)
}

func TestWaitFor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, "postgres connection", 5, func() error {
		return errors.New("connection refused")
	}, zap.NewNop())

	assert.Error(t, err)
}

func TestWaitFor_Succeeds(t *testing.T) {
	assert.NoError(t, WaitFor(context.Background(), "postgres connection", 3, func() error { return nil }, zap.NewNop()))
}
