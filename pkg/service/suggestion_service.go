// Daily suggestion generation: a stateless one-shot completion over a
// wider activity window than chat uses. Nothing is persisted; a provider
// failure degrades to the rule-based coach.
package service

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/coach"
	"github.com/dishaapp/disha/pkg/lang"
	"github.com/dishaapp/disha/pkg/utils"
)

// Suggestion is one generated nudge for the user's day.
type Suggestion struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

type SuggestionService struct {
	db           *gorm.DB
	settings     *SettingsService
	contextSvc   *ContextService
	prefs        *PreferenceService
	logger       *slog.Logger
	newGenerator GeneratorFactory
}

func NewSuggestionService(gdb *gorm.DB, settings *SettingsService, contextSvc *ContextService, prefs *PreferenceService) *SuggestionService {
	return &SuggestionService{
		db:         gdb,
		settings:   settings,
		contextSvc: contextSvc,
		prefs:      prefs,
		logger:     utils.GetLogger(),
		newGenerator: func(ctx context.Context, s ai.Settings) (ai.Generator, error) {
			return ai.NewClient(ctx, s)
		},
	}
}

// Suggest produces one actionable suggestion from the user's goals and
// their last week of activity.
func (s *SuggestionService) Suggest(ctx context.Context, userID string) Suggestion {
	pref := s.prefs.Get(userID)
	l := lang.English
	if lang.Valid(pref.DefaultLanguage) {
		l = lang.Lang(pref.DefaultLanguage)
	}

	snippet := s.contextSvc.ActivitySnippet(userID, suggestionLogWindowDays)

	gen, err := s.newGenerator(ctx, s.settings.Snapshot())
	if err == nil && gen.Available() {
		var sb strings.Builder
		sb.WriteString("You are Disha, a warm and practical personal coach. Based on the user's goals and recent activity, suggest one specific, small action for today, in 2-3 sentences. ")
		sb.WriteString(languageDirective(l))
		sb.WriteString(" Tone: " + pref.Tone + ".")
		if snippet != "" {
			sb.WriteString("\n\n")
			sb.WriteString(snippet)
		} else {
			sb.WriteString("\n\nThe user has not set up any goals yet; suggest they pick one small goal to start with.")
		}

		if text, ok := gen.Respond(ctx, sb.String()); ok {
			return Suggestion{Text: text}
		}
		s.logger.Warn("suggestion generation failed, using fallback", "user_id", userID)
	}

	// fallback classifies on the goal titles themselves
	seed := "get started with a goal"
	if goals := s.contextSvc.Goals(userID); len(goals) > 0 {
		titles := make([]string, 0, len(goals))
		for _, g := range goals {
			titles = append(titles, g.Title)
		}
		seed = strings.Join(titles, " ")
	}
	return Suggestion{Text: coach.BuildPlan(seed, l), Fallback: true}
}
