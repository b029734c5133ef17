package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"userId": int64(7)}).
		WithError(errors.New("boom"))

	log.Info("status changed", map[string]interface{}{"old": "Applied", "new": "Interview"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "status changed", entries[0].Message)
		assert.Equal(t, int64(7), ctx["userId"])
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, "Interview", ctx["new"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestFromContext(t *testing.T) {
	fallback := NewNoOpLogger()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := NewTestLogger(t)
	ctx := WithContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}
