package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapAdapter(zap.New(core)), logs
}

func TestZapAdapter_Fields(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.Info("programs cached", map[string]interface{}{
		"institution": "technion",
		"count":       5,
		"error":       errors.New("boom"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "programs cached", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "technion", fields["institution"])
	assert.EqualValues(t, 5, fields["count"])
	assert.Equal(t, "boom", fields["error"])
}

func TestZapAdapter_Levels(t *testing.T) {
	log, logs := observed(zapcore.WarnLevel)

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("shown", nil)
	log.Error("shown", nil)

	assert.Equal(t, 2, logs.Len())
}

func TestComponent(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	Component(log, "selection-state").WithError(errors.New("fetch failed")).Warn("failed", nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "selection-state", fields["component"])
	assert.Equal(t, "fetch failed", fields["error"])

	assert.NotPanics(t, func() {
		Component(nil, "orphan").Info("no parent", nil)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNew_BadOutputFallsBack(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/intake.log")
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("still logging") })
}
