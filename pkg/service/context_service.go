// Prompt assembly for chat turns. Sections are ordered so the most recent
// material sits closest to the final instruction; every sub-fetch degrades
// to an empty section on error, assembly itself never fails a turn.
package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/lang"
	"github.com/dishaapp/disha/pkg/utils"
)

const (
	// chat wants immediate context, suggestions want a broader pattern
	chatLogWindowDays       = 3
	suggestionLogWindowDays = 7

	maxContextGoals        = 8
	maxContextLogs         = 10
	maxTranscriptMessages  = 20
	maxTranscriptLineChars = 1000
	maxSummaryChars        = 1500
	maxOtherSummaries      = 5
	maxOtherSummaryChars   = 500
)

// ContextService assembles the model prompt for one chat turn.
type ContextService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewContextService(gdb *gorm.DB) *ContextService {
	return &ContextService{db: gdb, logger: utils.GetLogger()}
}

// Goals returns up to maxContextGoals active goals for the user.
func (s *ContextService) Goals(userID string) []db.Goal {
	var goals []db.Goal
	err := s.db.Where("user_id = ? AND status = ?", userID, db.GoalStatusActive).
		Order("created_at ASC").
		Limit(maxContextGoals).
		Find(&goals).Error
	if err != nil {
		s.logger.Warn("goal fetch failed, continuing without", "user_id", userID, "error", err)
		return nil
	}
	return goals
}

// ActivitySnippet renders the user's goals and recent completions as two
// short prompt lines. windowDays controls how far back logs are counted.
func (s *ContextService) ActivitySnippet(userID string, windowDays int) string {
	goals := s.Goals(userID)
	if len(goals) == 0 {
		return ""
	}

	titles := make([]string, 0, len(goals))
	for _, g := range goals {
		t := g.Title
		if g.Category != "" {
			t += " (" + g.Category + ")"
		}
		if g.TargetFrequency != "" {
			t += " [" + g.TargetFrequency + "]"
		}
		titles = append(titles, t)
	}

	var sb strings.Builder
	sb.WriteString("User goals: ")
	sb.WriteString(strings.Join(titles, ", "))

	since := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")
	var logs []db.GoalLog
	err := s.db.Where("user_id = ? AND log_date >= ?", userID, since).
		Order("log_date DESC").
		Limit(maxContextLogs).
		Find(&logs).Error
	if err != nil {
		s.logger.Warn("goal log fetch failed, continuing without", "user_id", userID, "error", err)
		return sb.String()
	}
	if len(logs) > 0 {
		completed := 0
		for _, l := range logs {
			if l.Completed {
				completed++
			}
		}
		sb.WriteString(fmt.Sprintf("\nRecent activity: %d/%d completed in last %d days",
			completed, len(logs), windowDays))
	}
	return sb.String()
}

func languageDirective(l lang.Lang) string {
	switch l {
	case lang.Hindi:
		return "Reply in Hindi (Devanagari script)."
	case lang.Hinglish:
		return "Reply in Hinglish (romanized Hindi mixed with English), the way the user writes."
	}
	return "Reply in English."
}

// BuildPrompt assembles the full prompt for a chat turn. excludeMessageID
// names the just-inserted user row so a fresh turn does not see its own
// message twice; it is empty on a regenerate.
func (s *ContextService) BuildPrompt(userID, conversationID, utterance, excludeMessageID string, l lang.Lang, tone string) string {
	var sections []string

	sections = append(sections,
		"You are Disha, a warm and practical personal coach for goals, habits, study, fitness, career, and money. Give specific, small, doable steps grounded in what you know about the user.")

	sections = append(sections, strings.Join([]string{
		"Style: keep replies short, at most 4 bullet points plus one closing question.",
		languageDirective(l),
		"Tone: " + tone + ".",
	}, " "))

	snippet := s.ActivitySnippet(userID, chatLogWindowDays)
	header := "Current time: " + time.Now().Format("Mon, 02 Jan 2006 15:04")
	if snippet != "" {
		header += "\n" + snippet
	}
	sections = append(sections, header)

	var conv db.Conversation
	if err := s.db.First(&conv, "id = ?", conversationID).Error; err == nil && conv.Summary != "" {
		sections = append(sections, "What you remember about this conversation:\n"+
			utils.TruncateString(conv.Summary, maxSummaryChars))
	}

	if other := s.otherSummaries(userID, conversationID); other != "" {
		sections = append(sections, other)
	}

	if transcript := s.transcript(conversationID, excludeMessageID); transcript != "" {
		sections = append(sections, "Conversation so far:\n"+transcript)
	}

	sections = append(sections, "Current message from the user:\n"+utterance)

	return strings.Join(sections, "\n\n")
}

// otherSummaries collects memory snippets from the user's other
// conversations, most recently updated first.
func (s *ContextService) otherSummaries(userID, conversationID string) string {
	var convs []db.Conversation
	err := s.db.Where("user_id = ? AND id != ? AND summary != ''", userID, conversationID).
		Order("updated_at DESC").
		Limit(maxOtherSummaries).
		Find(&convs).Error
	if err != nil {
		s.logger.Warn("other-conversation summary fetch failed, continuing without",
			"user_id", userID, "error", err)
		return ""
	}
	if len(convs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("From other conversations with this user:")
	for _, c := range convs {
		sb.WriteString("\n- ")
		sb.WriteString(utils.TruncateString(c.Summary, maxOtherSummaryChars))
	}
	return sb.String()
}

// transcript renders the last messages of the conversation in
// chronological order, one line per message, each line length-capped.
func (s *ContextService) transcript(conversationID, excludeMessageID string) string {
	var messages []db.Message
	query := s.db.Where("conversation_id = ?", conversationID)
	if excludeMessageID != "" {
		query = query.Where("id != ?", excludeMessageID)
	}
	err := query.Order("created_at DESC").
		Limit(maxTranscriptMessages).
		Find(&messages).Error
	if err != nil {
		s.logger.Warn("transcript fetch failed, continuing without",
			"conversation_id", conversationID, "error", err)
		return ""
	}
	if len(messages) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(utils.TruncateString(strings.ReplaceAll(m.Content, "\n", " "), maxTranscriptLineChars))
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
