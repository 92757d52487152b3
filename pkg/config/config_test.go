package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile_ReturnsDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path == "" {
		t.Fatalf("expected config path")
	}
	if got := cfg.Host(); got != DefaultHost {
		t.Fatalf("cfg.Host() = %q, want %q", got, DefaultHost)
	}
	if got := cfg.Port(); got != DefaultPort {
		t.Fatalf("cfg.Port() = %d, want %d", got, DefaultPort)
	}
	if got := cfg.Provider(); got != DefaultProvider {
		t.Fatalf("cfg.Provider() = %q, want %q", got, DefaultProvider)
	}
	if got := cfg.WatchdogSeconds(); got != DefaultWatchdogSeconds {
		t.Fatalf("cfg.WatchdogSeconds() = %d, want %d", got, DefaultWatchdogSeconds)
	}
}

func TestEnsureDefaultConfig_CreatesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := EnsureDefaultConfig()
	if err != nil {
		t.Fatalf("EnsureDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist at %s: %v", path, err)
	}

	cfg, gotPath, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if filepath.Clean(gotPath) != filepath.Clean(path) {
		t.Fatalf("Load() path = %s, want %s", gotPath, path)
	}
	if got := cfg.Provider(); got != DefaultProvider {
		t.Fatalf("cfg.Provider() = %q, want %q", got, DefaultProvider)
	}
}

func TestLoad_ParsesAISection(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	configDir := filepath.Join(home, ".disha")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	raw := "ai:\n  provider: openai\n  openai_api_key: sk-test\n  watchdog_seconds: 5\n  max_tokens: 256\npolicy:\n  blocked_terms:\n    - badword\n"
	if err := os.WriteFile(configPath, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Provider(); got != "openai" {
		t.Fatalf("cfg.Provider() = %q, want %q", got, "openai")
	}
	if got := cfg.OpenAIAPIKey(); got != "sk-test" {
		t.Fatalf("cfg.OpenAIAPIKey() = %q, want %q", got, "sk-test")
	}
	if got := cfg.WatchdogSeconds(); got != 5 {
		t.Fatalf("cfg.WatchdogSeconds() = %d, want 5", got)
	}
	if got := cfg.MaxTokens(); got != 256 {
		t.Fatalf("cfg.MaxTokens() = %d, want 256", got)
	}
	if terms := cfg.BlockedTerms(); len(terms) != 1 || terms[0] != "badword" {
		t.Fatalf("cfg.BlockedTerms() = %v, want [badword]", terms)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".disha")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("ai:\n  provider: anthropic\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for unknown provider")
	}
}

func TestAPIKeys_EnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GEMINI_API_KEY", "gm-env")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.OpenAIAPIKey(); got != "sk-env" {
		t.Fatalf("cfg.OpenAIAPIKey() = %q, want %q", got, "sk-env")
	}
	if got := cfg.GeminiAPIKey(); got != "gm-env" {
		t.Fatalf("cfg.GeminiAPIKey() = %q, want %q", got, "gm-env")
	}
}
