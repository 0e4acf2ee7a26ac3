package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLogger_LevelGating(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewLoggerWithZap(LogLevelInfo, zap.New(core))

	logger.Error("e %d", 1)
	logger.Warn("w")
	logger.Info("i")
	logger.Debug("d")
	logger.Trace("t")

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{"e 1", "w", "i"}, messages)
}

func TestLogger_TraceIsTagged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewLoggerWithZap(LogLevelTrace, zap.New(core))

	logger.Trace("seed %d", 7)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "[TRACE] seed 7", entries[0].Message)
	}
}

func TestLogger_WithKeepsLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewLoggerWithZap(LogLevelWarn, zap.New(core)).With("run_id", "abc")

	logger.Info("hidden")
	logger.Warn("shown")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "abc", entries[0].ContextMap()["run_id"])
	}
}
