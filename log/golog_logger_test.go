package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestNewGologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewGologLogger(&buf, LogLevelInfo)

	assert.NotNil(t, logger)
	assert.Equal(t, LogLevelInfo, logger.GetLevel())

	logger.Info("thread %s started", "abc")
	assert.Contains(t, buf.String(), "thread abc started")
	assert.Contains(t, buf.String(), prefix)
}

func TestGologLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewGologLogger(&buf, LogLevelError)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("hidden warn")
	assert.Empty(t, buf.String())

	logger.Error("failed: %d", 42)
	assert.Contains(t, buf.String(), "failed: 42")
}

func TestGologLogger_LevelControl(t *testing.T) {
	logger := WrapGolog(golog.New(), LogLevelInfo)

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())

	logger.SetLevel(LogLevelNone)
	assert.Equal(t, LogLevelNone, logger.GetLevel())
}
