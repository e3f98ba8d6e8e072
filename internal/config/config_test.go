package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "WEB_ADDR", "HTTP_TIMEOUT_SECONDS", "MAX_UPLOAD_MB", "REFERENCE_ROOT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("APIキーがなければエラー", func(t *testing.T) {
		clearEnv(t)
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("デフォルト値", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "key-1")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "key-1", cfg.GeminiAPIKey)
		assert.Equal(t, "gemini-2.5-flash-image", cfg.GeminiModel)
		assert.Equal(t, ":8080", cfg.WebAddr)
		assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	})

	t.Run("API_KEY へのフォールバックと上書き", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "legacy-key")
		t.Setenv("GEMINI_MODEL", "gemini-3-pro-image-preview")
		t.Setenv("HTTP_TIMEOUT_SECONDS", "-1")
		t.Setenv("MAX_UPLOAD_MB", "abc")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
		assert.Equal(t, "gemini-3-pro-image-preview", cfg.GeminiModel)
		assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	})
}
