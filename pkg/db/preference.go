// Database models for per-user preferences and admin settings
package db

import "time"

// UserPreference holds chat personalization for one user. An absent row
// means defaults: tone "empathetic", language detected at runtime.
type UserPreference struct {
	UserID          string    `json:"user_id" gorm:"primaryKey;size:36"`
	DefaultLanguage string    `json:"default_language,omitempty" gorm:"size:16"` // en, hi, hinglish; empty = detect
	Tone            string    `json:"tone" gorm:"size:20;default:'empathetic'"`  // empathetic, coaching, formal, casual
	UpdatedAt       time.Time `json:"updated_at"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

// Tones
const (
	ToneEmpathetic = "empathetic"
	ToneCoaching   = "coaching"
	ToneFormal     = "formal"
	ToneCasual     = "casual"
)

// Setting is one admin-managed key/value pair. AI provider and key
// overrides live here and are read through a TTL cache.
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey;size:100"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Setting keys consumed by the AI settings resolver.
const (
	SettingAIProvider  = "ai.provider"
	SettingOpenAIKey   = "ai.openai_api_key"
	SettingGeminiKey   = "ai.gemini_api_key"
	SettingOpenAIModel = "ai.openai_model"
	SettingGeminiModel = "ai.gemini_model"
)
