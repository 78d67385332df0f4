package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/quoteflow/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProductionConfigRejectsUnknownLevel(t *testing.T) {
	_, err := productionConfig(Config{Level: "loud"})
	assert.Error(t, err)

	cfg, err := productionConfig(Config{Level: "debug", Format: "CONSOLE"})
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Nil(t, cfg.Sampling)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level.Level())
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithSessionID(ctx, "1790000000000000000")
	WithContext(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "1790000000000000000", fields["session_id"])
	assert.NotContains(t, fields, "actor_type")
	assert.NotContains(t, fields, "trace_id")
}
