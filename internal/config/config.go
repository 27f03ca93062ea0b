package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	GeminiAPIKey string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	OutputDir string

	// RequestTimeout is zero when REQUEST_TIMEOUT_SECONDS is unset; each
	// command applies its own fallback (the chained process run waits longer).
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration
	RateDelay      time.Duration

	GeminiBaseURL    string
	GeminiAPIVersion string
	GeminiModel      string
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:         strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:            getEnvBool("DEBUG", false),
		PreferIPv4:       getEnvBool("PREFER_IPV4", true),
		OutputDir:        strings.TrimSpace(getEnv("OUTPUT_DIR", "images")),
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 0)) * time.Second,
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 120)) * time.Second,
		RateDelay:        time.Duration(getEnvInt("RATE_DELAY_SECONDS", 3)) * time.Second,
		GeminiBaseURL:    strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion: strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		GeminiModel:      strings.TrimSpace(getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp")),
	}

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "images"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 120 * time.Second
	}
	if cfg.RateDelay < 0 {
		cfg.RateDelay = 0
	}

	return cfg, nil
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

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
