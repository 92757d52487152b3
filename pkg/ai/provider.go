// Package ai wraps the upstream text-generation providers behind a small
// client that the chat pipeline can race against its fallback timer.
package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Provider identifies a resolved text-generation backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderNone   Provider = "none"

	// PreferenceAuto is a configuration value, never a resolved provider.
	PreferenceAuto = "auto"
)

// Settings carries everything needed to construct a provider client for
// one request. Values come from admin settings with config file fallback.
type Settings struct {
	Preference    string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	MaxTokens     int
	Temperature   float32
}

// Resolve maps a provider preference plus credential presence onto a
// concrete provider. Pure function, no I/O. An explicit preference is
// honored only when its key is present; auto prefers OpenAI.
func Resolve(preference, openaiKey, geminiKey string) Provider {
	switch preference {
	case string(ProviderOpenAI):
		if openaiKey != "" {
			return ProviderOpenAI
		}
	case string(ProviderGemini):
		if geminiKey != "" {
			return ProviderGemini
		}
	case PreferenceAuto, "":
		if openaiKey != "" {
			return ProviderOpenAI
		}
		if geminiKey != "" {
			return ProviderGemini
		}
	}
	return ProviderNone
}

// Resolve applies the resolution rules to this settings snapshot.
func (s Settings) Resolve() Provider {
	return Resolve(s.Preference, s.OpenAIAPIKey, s.GeminiAPIKey)
}

func newChatModel(ctx context.Context, p Provider, s Settings) (model.BaseChatModel, error) {
	switch p {
	case ProviderOpenAI:
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: s.OpenAIBaseURL,
			APIKey:  s.OpenAIAPIKey,
			Model:   s.OpenAIModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI model: %w", err)
		}
		return chatModel, nil

	case ProviderGemini:
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client: genaiClient,
			Model:  s.GeminiModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini model: %w", err)
		}
		return chatModel, nil
	}
	return nil, fmt.Errorf("no provider available")
}
