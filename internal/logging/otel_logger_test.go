package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
)

func TestNewOTLPLogger_DisabledFallsBackToStdout(t *testing.T) {
	l, err := NewOTLPLogger(OTLPConfig{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, l.Logger())
	assert.NoError(t, l.Shutdown(context.Background()))
}

func TestOTLPLogger_WithEntity(t *testing.T) {
	l, err := NewOTLPLogger(OTLPConfig{Enabled: false})
	require.NoError(t, err)

	scoped := l.WithEntity("e1")
	assert.NotNil(t, scoped)
	assert.NotSame(t, l.Logger(), scoped)
}

func TestOTLPHandler_Bridging(t *testing.T) {
	handler := newOTLPHandler(noop.NewLoggerProvider().Logger("test"))

	assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.Same(t, handler, handler.WithAttrs([]slog.Attr{slog.String("k", "v")}))
	assert.Same(t, handler, handler.WithGroup("group"))

	record := slog.NewRecord(time.Now(), slog.LevelWarn, "output volatility elevated", 0)
	record.AddAttrs(slog.String("entity_id", "e1"))
	assert.NoError(t, handler.Handle(context.Background(), record))
}

func TestSlogLevelToSeverity(t *testing.T) {
	assert.Equal(t, otellog.SeverityDebug, slogLevelToSeverity(slog.LevelDebug))
	assert.Equal(t, otellog.SeverityInfo, slogLevelToSeverity(slog.LevelInfo))
	assert.Equal(t, otellog.SeverityWarn, slogLevelToSeverity(slog.LevelWarn))
	assert.Equal(t, otellog.SeverityError, slogLevelToSeverity(slog.LevelError))
}
