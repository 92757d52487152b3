// Long-term conversation memory. Rewrites a bounded digest after each
// completed turn; best-effort only, a failed run leaves the stored summary
// exactly as it was.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/lang"
	"github.com/dishaapp/disha/pkg/utils"
)

const (
	summaryWindowMessages = 12
	summaryMaxTokens      = 300
	summaryMaxWords       = 250
	summaryMaxChars       = 8000
)

// SummaryService maintains each conversation's rolling summary.
type SummaryService struct {
	db           *gorm.DB
	settings     *SettingsService
	emitter      *event.Emitter
	logger       *slog.Logger
	newGenerator GeneratorFactory
}

func NewSummaryService(gdb *gorm.DB, settings *SettingsService, emitter *event.Emitter) *SummaryService {
	return &SummaryService{
		db:       gdb,
		settings: settings,
		emitter:  emitter,
		logger:   utils.GetLogger(),
		newGenerator: func(ctx context.Context, s ai.Settings) (ai.Generator, error) {
			return ai.NewClient(ctx, s)
		},
	}
}

// Subscribe starts refreshing summaries after each completed turn. Each
// refresh runs on its own goroutine so the emitter is never blocked.
// Returns an unsubscribe function.
func (s *SummaryService) Subscribe() func() {
	return s.emitter.On(event.ChatTurnCompleted, func(ev event.Event) {
		e, ok := ev.(event.ChatTurnCompletedEvent)
		if !ok {
			return
		}
		go s.Refresh(context.Background(), e.UserID, e.ConversationID, lang.Lang(e.Language), e.Tone)
	})
}

// Refresh rewrites the conversation summary from its recent messages
// layered onto the previous summary. Every failure path returns without
// touching the stored value.
func (s *SummaryService) Refresh(ctx context.Context, userID, conversationID string, l lang.Lang, tone string) {
	var conv db.Conversation
	if err := s.db.First(&conv, "id = ?", conversationID).Error; err != nil {
		s.logger.Debug("summary skipped, conversation lookup failed", "conversation_id", conversationID, "error", err)
		return
	}

	var messages []db.Message
	if err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(summaryWindowMessages).
		Find(&messages).Error; err != nil {
		s.logger.Debug("summary skipped, message fetch failed", "conversation_id", conversationID, "error", err)
		return
	}
	if len(messages) == 0 {
		return
	}

	settings := s.settings.Snapshot()
	settings.MaxTokens = summaryMaxTokens
	gen, err := s.newGenerator(ctx, settings)
	if err != nil || !gen.Available() {
		return
	}

	text, ok := gen.Respond(ctx, s.buildPrompt(conv.Summary, messages, l, tone))
	if !ok {
		s.logger.Debug("summary generation failed, keeping previous", "conversation_id", conversationID)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	updated := utils.TruncateString(text, summaryMaxChars)
	if err := s.db.Model(&db.Conversation{}).Where("id = ?", conversationID).
		Update("summary", updated).Error; err != nil {
		s.logger.Warn("summary persist failed", "conversation_id", conversationID, "error", err)
		return
	}

	if s.emitter != nil {
		s.emitter.Emit(event.ConversationSummaryUpdatedEvent{
			UserID:         userID,
			ConversationID: conversationID,
		})
	}
}

func (s *SummaryService) buildPrompt(previous string, recent []db.Message, l lang.Lang, tone string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"You maintain a running memory of a coaching conversation. Rewrite the summary in at most %d words, keeping only facts useful for future coaching: the user's goals, constraints, progress, and decisions. Add only new facts from the recent messages; do not repeat the transcript verbatim. ",
		summaryMaxWords))
	sb.WriteString(languageDirective(l))
	sb.WriteString(" Tone: " + tone + ".")

	if previous != "" {
		sb.WriteString("\n\nPrevious summary:\n")
		sb.WriteString(utils.TruncateString(previous, maxSummaryChars))
	}

	sb.WriteString("\n\nRecent messages:")
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		sb.WriteString("\n")
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(utils.TruncateString(strings.ReplaceAll(m.Content, "\n", " "), maxTranscriptLineChars))
	}
	return sb.String()
}
