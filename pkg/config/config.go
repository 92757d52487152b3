package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is read from a YAML file under the user's home directory.
// All fields are optional; defaults are applied by the accessor methods.
//
// Example (~/.disha/config.yaml):
//
// server:
//   host: 127.0.0.1
//   port: 8090
// ai:
//   provider: auto          # auto | openai | gemini
//   openai_api_key: sk-...
//   gemini_api_key: ...
//   watchdog_seconds: 12
// policy:
//   blocked_terms:
//     - gambling tips
//
// Notes:
// - If the config file does not exist, Load returns defaults without error.
// - If the config file exists but cannot be parsed, Load returns an error.
// - API keys fall back to OPENAI_API_KEY / GEMINI_API_KEY env vars.

type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Policy PolicyConfig `yaml:"policy"`
	Auth   AuthConfig   `yaml:"auth"`
}

type ServerConfig struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

type AIConfig struct {
	Provider        *string  `yaml:"provider"` // auto | openai | gemini
	OpenAIAPIKey    *string  `yaml:"openai_api_key"`
	OpenAIModel     *string  `yaml:"openai_model"`
	OpenAIBaseURL   *string  `yaml:"openai_base_url"`
	GeminiAPIKey    *string  `yaml:"gemini_api_key"`
	GeminiModel     *string  `yaml:"gemini_model"`
	WatchdogSeconds *int     `yaml:"watchdog_seconds"`
	MaxTokens       *int     `yaml:"max_tokens"`
	Temperature     *float64 `yaml:"temperature"`
	SettingsTTL     *int     `yaml:"settings_cache_seconds"`
}

type PolicyConfig struct {
	BlockedTerms []string `yaml:"blocked_terms"`
}

type AuthConfig struct {
	SessionSecret *string `yaml:"session_secret"`
}

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8090
	DefaultProvider        = "auto"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-1.5-flash"
	DefaultWatchdogSeconds = 12
	DefaultMaxTokens       = 700
	DefaultTemperature     = 0.7
	DefaultSettingsTTL     = 60
	DefaultSessionSecret   = "disha-dev-session-secret"
)

// DefaultPaths returns the config dir and config file path.
func DefaultPaths() (configDir string, configFile string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get user home dir: %w", err)
	}
	configDir = filepath.Join(home, ".disha")
	configFile = filepath.Join(configDir, "config.yaml")
	return configDir, configFile, nil
}

// Load reads ~/.disha/config.yaml.
// If the file doesn't exist, it returns a default config and nil error.
func Load() (*AppConfig, string, error) {
	_, configFile, err := DefaultPaths()
	if err != nil {
		return nil, "", err
	}

	cfg := &AppConfig{}

	b, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, configFile, nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, "", fmt.Errorf("parse yaml config %s: %w", configFile, err)
	}

	// Validate
	host := cfg.Host()
	if strings.TrimSpace(host) == "" {
		return nil, "", fmt.Errorf("invalid server.host (empty) in %s", configFile)
	}

	port := cfg.Port()
	if port < 1 || port > 65535 {
		return nil, "", fmt.Errorf("invalid server.port %d in %s", port, configFile)
	}

	switch cfg.Provider() {
	case "auto", "openai", "gemini":
	default:
		return nil, "", fmt.Errorf("invalid ai.provider %q in %s", cfg.Provider(), configFile)
	}

	if cfg.WatchdogSeconds() < 1 {
		return nil, "", fmt.Errorf("invalid ai.watchdog_seconds %d in %s", cfg.WatchdogSeconds(), configFile)
	}

	return cfg, configFile, nil
}

// EnsureDefaultConfig writes a default config file if it doesn't already exist.
// It is safe to call on startup.
func EnsureDefaultConfig() (string, error) {
	configDir, configFile, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configFile); err == nil {
		return configFile, nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", configDir, err)
	}

	defaultCfg := AppConfig{
		Server: ServerConfig{Host: ptr(DefaultHost), Port: ptr(DefaultPort)},
		AI:     AIConfig{Provider: ptr(DefaultProvider)},
	}
	b, err := yaml.Marshal(&defaultCfg)
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}

	// Write with restrictive permissions; the file may hold API keys.
	if err := os.WriteFile(configFile, b, 0o600); err != nil {
		return "", fmt.Errorf("write default config file %s: %w", configFile, err)
	}

	return configFile, nil
}

func (c *AppConfig) Host() string {
	if c == nil || c.Server.Host == nil {
		return DefaultHost
	}
	v := strings.TrimSpace(*c.Server.Host)
	if v == "" {
		return DefaultHost
	}
	return v
}

func (c *AppConfig) Port() int {
	if c == nil || c.Server.Port == nil {
		return DefaultPort
	}
	return *c.Server.Port
}

func (c *AppConfig) Provider() string {
	if c == nil || c.AI.Provider == nil {
		return DefaultProvider
	}
	v := strings.TrimSpace(strings.ToLower(*c.AI.Provider))
	if v == "" {
		return DefaultProvider
	}
	return v
}

// OpenAIAPIKey returns the configured key, falling back to OPENAI_API_KEY.
func (c *AppConfig) OpenAIAPIKey() string {
	if c != nil && c.AI.OpenAIAPIKey != nil && strings.TrimSpace(*c.AI.OpenAIAPIKey) != "" {
		return strings.TrimSpace(*c.AI.OpenAIAPIKey)
	}
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

// GeminiAPIKey returns the configured key, falling back to GEMINI_API_KEY.
func (c *AppConfig) GeminiAPIKey() string {
	if c != nil && c.AI.GeminiAPIKey != nil && strings.TrimSpace(*c.AI.GeminiAPIKey) != "" {
		return strings.TrimSpace(*c.AI.GeminiAPIKey)
	}
	return strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
}

func (c *AppConfig) OpenAIModel() string {
	if c == nil || c.AI.OpenAIModel == nil || strings.TrimSpace(*c.AI.OpenAIModel) == "" {
		return DefaultOpenAIModel
	}
	return strings.TrimSpace(*c.AI.OpenAIModel)
}

func (c *AppConfig) OpenAIBaseURL() string {
	if c == nil || c.AI.OpenAIBaseURL == nil {
		return ""
	}
	return strings.TrimSpace(*c.AI.OpenAIBaseURL)
}

func (c *AppConfig) GeminiModel() string {
	if c == nil || c.AI.GeminiModel == nil || strings.TrimSpace(*c.AI.GeminiModel) == "" {
		return DefaultGeminiModel
	}
	return strings.TrimSpace(*c.AI.GeminiModel)
}

func (c *AppConfig) WatchdogSeconds() int {
	if c == nil || c.AI.WatchdogSeconds == nil {
		return DefaultWatchdogSeconds
	}
	return *c.AI.WatchdogSeconds
}

func (c *AppConfig) MaxTokens() int {
	if c == nil || c.AI.MaxTokens == nil || *c.AI.MaxTokens < 1 {
		return DefaultMaxTokens
	}
	return *c.AI.MaxTokens
}

func (c *AppConfig) Temperature() float64 {
	if c == nil || c.AI.Temperature == nil {
		return DefaultTemperature
	}
	return *c.AI.Temperature
}

func (c *AppConfig) SettingsTTLSeconds() int {
	if c == nil || c.AI.SettingsTTL == nil || *c.AI.SettingsTTL < 1 {
		return DefaultSettingsTTL
	}
	return *c.AI.SettingsTTL
}

// BlockedTerms returns the policy term list. A missing or empty list means
// the policy filter passes everything.
func (c *AppConfig) BlockedTerms() []string {
	if c == nil {
		return nil
	}
	return c.Policy.BlockedTerms
}

func (c *AppConfig) SessionSecret() string {
	if c != nil && c.Auth.SessionSecret != nil && strings.TrimSpace(*c.Auth.SessionSecret) != "" {
		return strings.TrimSpace(*c.Auth.SessionSecret)
	}
	if v := strings.TrimSpace(os.Getenv("DISHA_SESSION_SECRET")); v != "" {
		return v
	}
	return DefaultSessionSecret
}

func ptr[T any](v T) *T { return &v }
