package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLogger_InitOnce(t *testing.T) {
	shared = nil
	t.Cleanup(func() { shared = nil })
	t.Setenv("LOG_LEVEL", "")

	Init("debug")
	first := Logger()
	Init("error")

	assert.Same(t, first, Logger())
	assert.True(t, first.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestLogger_EnvOverridesLevel(t *testing.T) {
	shared = nil
	t.Cleanup(func() { shared = nil })
	t.Setenv("LOG_LEVEL", "warn")

	Init("debug")

	core := Logger().Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
}

func TestLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	shared = nil
	t.Cleanup(func() { shared = nil })
	t.Setenv("LOG_LEVEL", "")

	Init("chatty")

	core := Logger().Desugar().Core()
	assert.False(t, core.Enabled(zapcore.DebugLevel))
	assert.True(t, core.Enabled(zapcore.InfoLevel))
}
