package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("default storage = %s", cfg.Storage.Type)
	}
	if cfg.Registry.MaxJobAge != 10*time.Minute {
		t.Errorf("max job age = %v", cfg.Registry.MaxJobAge)
	}
	if cfg.Registry.CompletedRetention != 5*time.Minute {
		t.Errorf("completed retention = %v", cfg.Registry.CompletedRetention)
	}
	if cfg.Registry.SweepSchedule != "@every 5m" {
		t.Errorf("sweep schedule = %s", cfg.Registry.SweepSchedule)
	}
	if cfg.LLM.DefaultProvider != LLMProviderGemini {
		t.Errorf("default provider = %s", cfg.LLM.DefaultProvider)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
environment = "production"

[server]
port = 9090
host = "0.0.0.0"

[storage]
type = "badger"

[workers]
concurrency = 4
queue_size = 16

[llm]
default_provider = "claude"
`
	path := filepath.Join(t.TempDir(), "motif.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Storage.Type != "badger" {
		t.Errorf("storage = %s", cfg.Storage.Type)
	}
	if cfg.Workers.Concurrency != 4 {
		t.Errorf("concurrency = %d", cfg.Workers.Concurrency)
	}
	if cfg.LLM.DefaultProvider != LLMProviderClaude {
		t.Errorf("provider = %s", cfg.LLM.DefaultProvider)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	// Unset sections keep their defaults.
	if cfg.Registry.MaxJobAge != 10*time.Minute {
		t.Errorf("max job age = %v", cfg.Registry.MaxJobAge)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/motif.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MOTIF_SERVER_PORT", "7070")
	t.Setenv("MOTIF_STORAGE_TYPE", "badger")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MOTIF_LLM_DEFAULT_PROVIDER", "claude")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Storage.Type != "badger" {
		t.Errorf("storage = %s", cfg.Storage.Type)
	}
	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.LLM.DefaultProvider != LLMProviderClaude {
		t.Errorf("provider = %s", cfg.LLM.DefaultProvider)
	}
}

func TestPrefixedEnvWinsOverBare(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "bare")
	t.Setenv("MOTIF_GEMINI_API_KEY", "prefixed")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gemini.APIKey != "prefixed" {
		t.Errorf("api key = %q, want prefixed", cfg.Gemini.APIKey)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 6060, "127.0.0.1")
	if cfg.Server.Port != 6060 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("flag overrides not applied: %+v", cfg.Server)
	}

	ApplyFlagOverrides(cfg, 0, "")
	if cfg.Server.Port != 6060 || cfg.Server.Host != "127.0.0.1" {
		t.Error("zero-value flags should not override")
	}
}

func TestValidateSweepSchedule(t *testing.T) {
	valid := []string{"@every 5m", "@every 30s", "*/5 * * * *", "0 * * * *"}
	for _, s := range valid {
		if err := ValidateSweepSchedule(s); err != nil {
			t.Errorf("schedule %q rejected: %v", s, err)
		}
	}

	invalid := []string{"", "not a schedule", "@every"}
	for _, s := range invalid {
		if err := ValidateSweepSchedule(s); err == nil {
			t.Errorf("schedule %q accepted, want error", s)
		}
	}
}
