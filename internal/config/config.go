package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shouni/gemini-selfie-kit/pkg/generator"
)

// Config は環境変数から読み込む実行時設定です。
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	WebAddr        string
	HTTPTimeout    time.Duration
	MaxUploadBytes int64
	// ReferenceRoot はローカル参照画像を読める範囲です。空なら制限しません。
	ReferenceRoot string

	LogLevel slog.Level
}

// Load は .env（あれば）と環境変数から設定を読み込みます。
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		GeminiModel:    getEnv("GEMINI_MODEL", generator.DefaultModel),
		WebAddr:        getEnv("WEB_ADDR", ":8080"),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 25)) << 20,
		ReferenceRoot:  getEnv("REFERENCE_ROOT", ""),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", getEnv("API_KEY", ""))
	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 25 << 20
	}

	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
