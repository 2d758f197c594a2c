package adapter

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAppLogger_AttachesRequestIDAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewAppLogger(zap.New(core))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	logger.Warn(ctx, "seat release skipped", map[string]interface{}{"train_id": "t-1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "seat release skipped", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-42", fields["requestID"])
	assert.Equal(t, "t-1", fields["train_id"])
}

func TestZapAppLogger_TraceLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewAppLogger(zap.New(core))

	logger.Trace(context.Background(), "bus message", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.NotContains(t, logs.All()[0].ContextMap(), "requestID")
}

func TestNewZapAppLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := NewZapAppLogger("railway", "loud")
	require.Error(t, err)
}
