package service

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/config"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/models"
)

func newSettingsEnv(t *testing.T) *SettingsService {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return NewSettingsService(gdb, &config.AppConfig{}, ai.NewSettingsCache(time.Minute, nil), event.NewEmitter())
}

func TestSnapshot_ConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	svc := newSettingsEnv(t)

	snap := svc.Snapshot()
	if snap.Preference != config.DefaultProvider {
		t.Errorf("provider = %q, want config default %q", snap.Preference, config.DefaultProvider)
	}
	if snap.OpenAIModel != config.DefaultOpenAIModel || snap.GeminiModel != config.DefaultGeminiModel {
		t.Errorf("models = (%q, %q), want config defaults", snap.OpenAIModel, snap.GeminiModel)
	}
	if got := snap.Resolve(); got != ai.ProviderNone {
		t.Errorf("resolution without keys = %q, want none", got)
	}
}

func TestUpdate_OverridesConfigAndRefreshesCache(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	svc := newSettingsEnv(t)

	// prime the cache with the empty overrides
	_ = svc.Snapshot()

	err := svc.Update(&models.UpdateSettingsRequest{
		Provider:     "gemini",
		GeminiAPIKey: "gk-test-1234567890",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// the write path refreshes the cache, no TTL wait needed
	snap := svc.Snapshot()
	if snap.Preference != "gemini" || snap.GeminiAPIKey != "gk-test-1234567890" {
		t.Fatalf("snapshot after update = %+v, want gemini override visible", snap)
	}
	if got := snap.Resolve(); got != ai.ProviderGemini {
		t.Errorf("resolution = %q, want gemini", got)
	}
}

func TestUpdate_RejectsUnknownProvider(t *testing.T) {
	svc := newSettingsEnv(t)
	if err := svc.Update(&models.UpdateSettingsRequest{Provider: "llama"}); err != ErrInvalidProvider {
		t.Fatalf("got %v, want ErrInvalidProvider", err)
	}
}

func TestView_MasksKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	svc := newSettingsEnv(t)

	if err := svc.Update(&models.UpdateSettingsRequest{OpenAIAPIKey: "sk-super-secret-value"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	view := svc.View()
	if strings.Contains(view["openai_api_key"], "super-secret") {
		t.Fatalf("admin view leaks the key: %q", view["openai_api_key"])
	}
	if view["openai_api_key"] == "" {
		t.Error("masked key should not be empty when a key is set")
	}
}
