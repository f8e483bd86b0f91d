package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MAX_UPLOAD_BYTES", "RENDER_ENABLED", "RESULT_CACHE_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5000" {
		t.Errorf("expected port 5000, got %q", cfg.Port)
	}
	if cfg.MaxUploadBytes != 16*1024*1024 {
		t.Errorf("expected 16MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if !cfg.RenderEnabled {
		t.Error("expected rendering enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("RESULT_CACHE_TTL", "90s")
	t.Setenv("RENDER_ENABLED", "false")
	t.Setenv("WORDS_PER_PAGE", "not-a-number")

	cfg := Load()
	if cfg.WorkerCount != 2 {
		t.Errorf("expected invalid worker count to fall back to 2, got %d", cfg.WorkerCount)
	}
	if cfg.ResultCacheTTL != 90*time.Second {
		t.Errorf("expected 90s cache TTL, got %s", cfg.ResultCacheTTL)
	}
	if cfg.RenderEnabled {
		t.Error("expected rendering disabled")
	}
	if cfg.WordsPerPage != 500 {
		t.Errorf("expected default words per page, got %d", cfg.WordsPerPage)
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := Load()
	cfg.Port = "http"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestLoad_ZeroCacheTTLDisables(t *testing.T) {
	for _, v := range []string{"0s", "-5m"} {
		t.Setenv("RESULT_CACHE_TTL", v)
		if cfg := Load(); cfg.ResultCacheTTL != 0 {
			t.Errorf("RESULT_CACHE_TTL=%s: expected cache disabled, got %s", v, cfg.ResultCacheTTL)
		}
	}
}
