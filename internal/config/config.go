package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// FAQ corpus
	DataDir string

	// Admin endpoints
	FAQServeAPIKey string

	// Upload limits
	MaxUploadBytes int64

	// Link validator
	LinkCheckTimeout     time.Duration
	LinkCheckConcurrency int
	LinkCheckDeepPDF     bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8085"),

		DataDir: envOr("DATA_DIR", "data"),

		FAQServeAPIKey: os.Getenv("FAQSERVE_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		LinkCheckTimeout:     envDuration("LINK_CHECK_TIMEOUT", 5*time.Second),
		LinkCheckConcurrency: envInt("LINK_CHECK_CONCURRENCY", 8),
		LinkCheckDeepPDF:     envBool("LINK_CHECK_DEEP_PDF", false),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.LinkCheckTimeout <= 0 {
		cfg.LinkCheckTimeout = 5 * time.Second
	}
	if cfg.LinkCheckConcurrency <= 0 {
		cfg.LinkCheckConcurrency = 8
	}

	return cfg
}

func (c Config) Validate() error {
	if c.FAQServeAPIKey == "" {
		return fmt.Errorf("FAQSERVE_API_KEY is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
