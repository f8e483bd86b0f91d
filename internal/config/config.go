package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth; empty disables the bearer check on /api routes.
	APIKey string

	// Worker pool for async jobs
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job and result state
	JobTTL         time.Duration
	ResultCacheTTL time.Duration

	// External renderer and rasterizer
	RenderEnabled bool
	SofficePath   string
	PdftoppmPath  string
	RenderTimeout time.Duration
	PreviewDPI    int

	// Equal-division fallback estimate when the document has no page count
	WordsPerPage int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "5000"),

		APIKey: os.Getenv("DOCPAGER_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 16*1024*1024), // 16MB

		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
		ResultCacheTTL: envDuration("RESULT_CACHE_TTL", 10*time.Minute),

		RenderEnabled: envBool("RENDER_ENABLED", true),
		SofficePath:   envOr("SOFFICE_PATH", "soffice"),
		PdftoppmPath:  envOr("PDFTOPPM_PATH", "pdftoppm"),
		RenderTimeout: envDuration("RENDER_TIMEOUT", 60*time.Second),
		PreviewDPI:    envInt("PREVIEW_DPI", 150),

		WordsPerPage: envInt("WORDS_PER_PAGE", 500),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 16 * 1024 * 1024
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	// A zero or negative cache TTL disables the result cache.
	if cfg.ResultCacheTTL < 0 {
		cfg.ResultCacheTTL = 0
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 60 * time.Second
	}
	if cfg.PreviewDPI <= 0 {
		cfg.PreviewDPI = 150
	}
	if cfg.WordsPerPage <= 0 {
		cfg.WordsPerPage = 500
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.PreviewDPI > 600 {
		return fmt.Errorf("PREVIEW_DPI must be at most 600, got %d", c.PreviewDPI)
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
