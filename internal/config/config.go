package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OutputDir string

	HTTPAddr        string
	HTTPMaxUploadMB int

	MatchWorkers int
	PreviewChars int

	TesseractPath       string
	TesseractLang       string
	OCRTimeoutSec       int
	LogLevel            string
	LogFormat           string
	ShutdownTimeoutSecs int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		HTTPMaxUploadMB: getEnvInt("HTTP_MAX_UPLOAD_MB", 20),

		MatchWorkers: getEnvInt("MATCH_WORKERS", 4),
		PreviewChars: getEnvInt("PREVIEW_CHARS", 3000),

		TesseractPath:       getEnv("TESSERACT_PATH", "tesseract"),
		TesseractLang:       getEnv("TESSERACT_LANG", "eng"),
		OCRTimeoutSec:       getEnvInt("OCR_TIMEOUT_SEC", 60),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		ShutdownTimeoutSecs: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
	}

	if cfg.MatchWorkers < 1 {
		cfg.MatchWorkers = 1
	}
	if cfg.PreviewChars < 0 {
		cfg.PreviewChars = 0
	}

	return cfg, nil
}

// MaxUploadBytes is the request body cap for the upload endpoints.
func (c Config) MaxUploadBytes() int64 {
	if c.HTTPMaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(c.HTTPMaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
