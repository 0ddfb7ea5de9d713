package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/whoami669/my-bot/config"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	t.Run("stdout only", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.NewTestConfig()
		cfg.LogLevel = "debug"

		closer, err := setupLogging(cfg, &buf)
		require.NoError(t, err)
		defer closer.Close()

		assert.Equal(t, log.DebugLevel, log.GetLevel())
		log.Debug("hello")
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("json with rotating file", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.NewTestConfig()
		cfg.LogFormat = "json"
		cfg.LogFile = filepath.Join(t.TempDir(), "bot.log")
		cfg.LogMaxSizeMB = 1

		closer, err := setupLogging(cfg, &buf)
		require.NoError(t, err)

		log.Info("rotated")
		require.NoError(t, closer.Close())

		assert.Contains(t, buf.String(), `"msg":"rotated"`)
		written, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		assert.Contains(t, string(written), "rotated")
	})

	t.Run("invalid settings", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.LogLevel = "loud"
		_, err := setupLogging(cfg, &bytes.Buffer{})
		assert.Error(t, err)

		cfg = config.NewTestConfig()
		cfg.LogFormat = "xml"
		_, err = setupLogging(cfg, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["migrate"])

	sub := map[string]bool{}
	for _, c := range migrateCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"up": true, "down": true, "status": true}, sub)
}
