package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("OUTREACH_PROVIDER_TIMEOUT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %s", cfg.Env)
	}
	if cfg.ProviderTimeout != 45*time.Second {
		t.Fatalf("expected provider timeout 45s, got %s", cfg.ProviderTimeout)
	}
	if cfg.IsProduction() {
		t.Fatalf("dev config must not report production")
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("OUTREACH_PROVIDER_TIMEOUT", "5s")
	t.Setenv("OUTREACH_BURST", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Fatalf("expected production, got %s", cfg.Env)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.ProviderTimeout)
	}
	if cfg.OutreachBurst != 3 {
		t.Fatalf("expected fallback burst 3, got %d", cfg.OutreachBurst)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nLLM_MODEL=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PORT", "7000")
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")

	cfg := Load()
	if cfg.Port != "7000" {
		t.Fatalf("expected env PORT to win, got %s", cfg.Port)
	}
	if cfg.LLMModel != "from-file" {
		t.Fatalf("expected LLM_MODEL from file, got %s", cfg.LLMModel)
	}
}
