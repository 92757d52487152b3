// Package models holds the request and response shapes of the HTTP API.
package models

// ChatRequest starts or regenerates one chat turn. Content is required
// unless Regenerate is set, in which case the last user message is replayed.
type ChatRequest struct {
	Content    string `json:"content"`
	Regenerate bool   `json:"regenerate"`
}

// CreateConversationRequest opens a new conversation thread.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// CreateGoalRequest registers a trackable goal.
type CreateGoalRequest struct {
	Title           string `json:"title" binding:"required"`
	Category        string `json:"category"`
	TargetFrequency string `json:"target_frequency"`
}

// UpdateGoalRequest edits goal fields; nil pointers leave values unchanged.
type UpdateGoalRequest struct {
	Title           *string `json:"title"`
	Category        *string `json:"category"`
	TargetFrequency *string `json:"target_frequency"`
	Status          *string `json:"status"`
}

// LogGoalRequest records one day's completion for a goal. Date defaults to
// today when empty; format YYYY-MM-DD.
type LogGoalRequest struct {
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

// PreferenceRequest upserts per-user defaults for the assistant.
type PreferenceRequest struct {
	DefaultLanguage string `json:"default_language"`
	Tone            string `json:"tone"`
}

// UpdateSettingsRequest changes admin-managed AI settings. Empty fields
// are ignored so a partial update does not clear stored keys.
type UpdateSettingsRequest struct {
	Provider     string `json:"provider"`
	OpenAIAPIKey string `json:"openai_api_key"`
	OpenAIModel  string `json:"openai_model"`
	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest opens a session.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
