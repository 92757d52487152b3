// AI settings resolution: admin-managed database rows override the config
// file, reads go through a TTL cache so chat turns don't hit the settings
// table on every request.
package service

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/config"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/utils"
)

var ErrInvalidProvider = errors.New("invalid provider")

// SettingsService resolves effective AI settings and handles admin updates.
// Resolution order per key: cached value, settings row, config file.
type SettingsService struct {
	db      *gorm.DB
	cfg     *config.AppConfig
	cache   *ai.SettingsCache
	emitter *event.Emitter
	logger  *slog.Logger
}

func NewSettingsService(gdb *gorm.DB, cfg *config.AppConfig, cache *ai.SettingsCache, emitter *event.Emitter) *SettingsService {
	return &SettingsService{
		db:      gdb,
		cfg:     cfg,
		cache:   cache,
		emitter: emitter,
		logger:  utils.GetLogger(),
	}
}

// override returns the stored admin override for key, empty when none.
// A cache hit with an empty value means "no override" and is respected,
// so a missing row costs one query per TTL window, not one per turn.
func (s *SettingsService) override(key string) string {
	if v, ok := s.cache.Get(key); ok {
		return v
	}

	var row db.Setting
	err := s.db.First(&row, "key = ?", key).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("settings lookup failed", "key", key, "error", err)
		return ""
	}

	s.cache.Set(key, row.Value)
	return row.Value
}

func (s *SettingsService) resolve(key, fallback string) string {
	if v := s.override(key); v != "" {
		return v
	}
	return fallback
}

// Snapshot resolves the full AI settings for one request.
func (s *SettingsService) Snapshot() ai.Settings {
	return ai.Settings{
		Preference:    s.resolve(db.SettingAIProvider, s.cfg.Provider()),
		OpenAIAPIKey:  s.resolve(db.SettingOpenAIKey, s.cfg.OpenAIAPIKey()),
		OpenAIModel:   s.resolve(db.SettingOpenAIModel, s.cfg.OpenAIModel()),
		OpenAIBaseURL: s.cfg.OpenAIBaseURL(),
		GeminiAPIKey:  s.resolve(db.SettingGeminiKey, s.cfg.GeminiAPIKey()),
		GeminiModel:   s.resolve(db.SettingGeminiModel, s.cfg.GeminiModel()),
		MaxTokens:     s.cfg.MaxTokens(),
		Temperature:   float32(s.cfg.Temperature()),
	}
}

// WatchdogTimeout is the bound on waiting for the first streamed token.
func (s *SettingsService) WatchdogTimeout() time.Duration {
	return time.Duration(s.cfg.WatchdogSeconds()) * time.Second
}

// Update persists non-empty fields as settings rows and refreshes the
// cache so the change takes effect immediately rather than after the TTL.
func (s *SettingsService) Update(req *models.UpdateSettingsRequest) error {
	if req.Provider != "" {
		switch req.Provider {
		case ai.PreferenceAuto, string(ai.ProviderOpenAI), string(ai.ProviderGemini):
		default:
			return ErrInvalidProvider
		}
	}

	pending := map[string]string{}
	if req.Provider != "" {
		pending[db.SettingAIProvider] = req.Provider
	}
	if req.OpenAIAPIKey != "" {
		pending[db.SettingOpenAIKey] = req.OpenAIAPIKey
	}
	if req.OpenAIModel != "" {
		pending[db.SettingOpenAIModel] = req.OpenAIModel
	}
	if req.GeminiAPIKey != "" {
		pending[db.SettingGeminiKey] = req.GeminiAPIKey
	}
	if req.GeminiModel != "" {
		pending[db.SettingGeminiModel] = req.GeminiModel
	}
	if len(pending) == 0 {
		return nil
	}

	keys := make([]string, 0, len(pending))
	for key, value := range pending {
		row := db.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
		if err := s.db.Save(&row).Error; err != nil {
			return err
		}
		s.cache.Set(key, value)
		keys = append(keys, key)
	}

	s.logger.Info("ai settings updated", "keys", keys)
	if s.emitter != nil {
		s.emitter.Emit(event.ConfigChangedEvent{Keys: keys})
	}
	return nil
}

// View returns the effective settings for the admin UI with key material
// masked.
func (s *SettingsService) View() map[string]string {
	snap := s.Snapshot()
	return map[string]string{
		"provider":       snap.Preference,
		"resolved":       string(snap.Resolve()),
		"openai_api_key": utils.MaskSensitiveString(snap.OpenAIAPIKey),
		"openai_model":   snap.OpenAIModel,
		"gemini_api_key": utils.MaskSensitiveString(snap.GeminiAPIKey),
		"gemini_model":   snap.GeminiModel,
	}
}
