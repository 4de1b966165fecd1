package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/gcmodel/internal/logger"
)

func TestLogOptions(t *testing.T) {
	resetFlags()
	opts := logOptions()
	assert.False(t, opts.Enabled, "logging is off by default")

	verbose = true
	opts = logOptions()
	assert.True(t, opts.Enabled)
	assert.Equal(t, slog.LevelDebug, opts.Level)
	assert.Empty(t, opts.LogDir)

	resetFlags()
	logDir = "/tmp/gcsize-logs"
	logJSON = true
	opts = logOptions()
	assert.True(t, opts.Enabled)
	assert.Equal(t, slog.LevelInfo, opts.Level)
	assert.Equal(t, "/tmp/gcsize-logs", opts.LogDir)
	assert.True(t, opts.JSON)
}

func TestRootCommand_LogDir(t *testing.T) {
	resetFlags()
	t.Cleanup(func() {
		resetFlags()
		_ = logger.Init(logger.Options{})
		rootCmd.SetArgs(nil)
	})

	dir := t.TempDir()
	rootCmd.SetArgs([]string{
		"evacuate", testTablePath(t, "classes.yaml"),
		"--objects", "12", "--log-dir", dir, "--log-json",
	})
	_, err := captureOutput(t, func() error {
		return rootCmd.Execute()
	})
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "gcsize-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assertContains(t, string(data), []string{`"msg":"evacuated objects"`, `"copied":12`})
}
