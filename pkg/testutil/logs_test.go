package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/cpmod/pkg/log"
)

func TestCaptureLogOutput(t *testing.T) {
	output, err := CaptureLogOutput(log.LevelInfo, func() {
		log.Info("This is an info message")
		log.Debug("This is a debug message")
	})
	require.NoError(t, err)
	assert.Contains(t, output, "This is an info message")
	assert.NotContains(t, output, "This is a debug message")

	output, err = CaptureLogOutput(log.LevelDebug, func() {
		log.Debug("This is a debug message")
	})
	require.NoError(t, err)
	assert.Contains(t, output, "This is a debug message")

	savedLevel := log.CurrentLevel()
	_, err = CaptureLogOutput(log.LevelError, func() {})
	require.NoError(t, err)
	assert.Equal(t, savedLevel, log.CurrentLevel())
}

func TestCaptureLogOutputRecoversPanics(t *testing.T) {
	_, err := CaptureLogOutput(log.LevelInfo, func() {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCaptureJSONLogs(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")

	entries, err := CaptureJSONLogs(log.LevelDebug, func() {
		log.Debug("Entry skipped", "path", "/a", "reason", "not owned")
		log.Warn("Entry failed", "path", "/b")
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entry, ok := FindLog(entries, "Entry skipped", map[string]any{"path": "/a"})
	require.True(t, ok)
	assert.Equal(t, "not owned", entry["reason"])

	_, ok = FindLog(entries, "Entry failed", map[string]any{"path": "/a"})
	assert.False(t, ok)
}
