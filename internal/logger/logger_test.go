package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"prod", "production", "dev", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWithAndLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	scoped := l.With("shop", "s1")
	scoped.Info("forecast generated", "metric", "revenue")
	scoped.Warn("member failed", "model", "arima")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "forecast generated", entry.Message)
	assert.Equal(t, "s1", entry.ContextMap()["shop"])
	assert.Equal(t, "revenue", entry.ContextMap()["metric"])
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Debug("x")
	l.Error("y", "k", 1)
	l.Sync()
}
