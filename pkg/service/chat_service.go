// Chat turn orchestration: conversation management, the policy gate, the
// model-vs-watchdog race, and persistence of both halves of a turn.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/coach"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/lang"
	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/utils"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotConversationOwner = errors.New("conversation not owned by user")
	ErrEmptyContent         = errors.New("content is required")
	ErrNoUserMessage        = errors.New("no user message to regenerate")
)

// GeneratorFactory builds a provider client for one turn. Swapped out in
// tests for a scripted generator.
type GeneratorFactory func(ctx context.Context, s ai.Settings) (ai.Generator, error)

// ChatService runs chat turns. Within one turn the model stream and the
// watchdog timer are the only concurrent activities; whichever wins the
// race for the first token decides between real streaming and fallback,
// resolved exactly once.
type ChatService struct {
	db           *gorm.DB
	settings     *SettingsService
	contextSvc   *ContextService
	prefs        *PreferenceService
	policy       *coach.Policy
	emitter      *event.Emitter
	logger       *slog.Logger
	newGenerator GeneratorFactory
	watchdog     time.Duration
}

func NewChatService(gdb *gorm.DB, settings *SettingsService, contextSvc *ContextService, prefs *PreferenceService, policy *coach.Policy, emitter *event.Emitter) *ChatService {
	return &ChatService{
		db:         gdb,
		settings:   settings,
		contextSvc: contextSvc,
		prefs:      prefs,
		policy:     policy,
		emitter:    emitter,
		logger:     utils.GetLogger(),
		newGenerator: func(ctx context.Context, s ai.Settings) (ai.Generator, error) {
			return ai.NewClient(ctx, s)
		},
		watchdog: settings.WatchdogTimeout(),
	}
}

// ========== Conversation Management ==========

// CreateConversation opens a new conversation for the user.
func (s *ChatService) CreateConversation(userID string, req *models.CreateConversationRequest) (*db.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New Chat"
	}

	conv := &db.Conversation{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
		Status: db.ConversationStatusActive,
	}
	if err := s.db.Create(conv).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation loads a conversation and checks ownership.
func (s *ChatService) GetConversation(userID, id string) (*db.Conversation, error) {
	var conv db.Conversation
	if err := s.db.First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrNotConversationOwner
	}
	return &conv, nil
}

// ListConversations returns the user's conversations, most recently
// active first.
func (s *ChatService) ListConversations(userID, status string, limit, offset int) ([]db.Conversation, bool, error) {
	var conversations []db.Conversation

	query := s.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	// fetch one extra to detect more pages
	if err := query.Order("updated_at DESC").Limit(limit + 1).Offset(offset).Find(&conversations).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(conversations) > limit
	if hasMore {
		conversations = conversations[:limit]
	}
	return conversations, hasMore, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *ChatService) DeleteConversation(userID, id string) error {
	if _, err := s.GetConversation(userID, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&db.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Conversation{}, "id = ?", id).Error
	})
}

// GetMessages returns the conversation transcript in chronological order.
func (s *ChatService) GetMessages(userID, conversationID string) ([]db.Message, error) {
	if _, err := s.GetConversation(userID, conversationID); err != nil {
		return nil, err
	}
	var messages []db.Message
	if err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ========== Streaming Turn ==========

// StreamTurn validates the request, persists the user message, and starts
// the turn. Pre-stream failures are returned synchronously so the handler
// can answer with a status code; after that the returned channel carries
// text fragments and closing it is the end-of-turn signal. All database
// writes for the turn complete before the channel closes.
func (s *ChatService) StreamTurn(ctx context.Context, userID, conversationID string, req *models.ChatRequest) (<-chan string, error) {
	conv, err := s.GetConversation(userID, conversationID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	excludeID := ""
	if req.Regenerate {
		var last db.Message
		err := s.db.Where("conversation_id = ? AND role = ?", conversationID, db.RoleUser).
			Order("created_at DESC").
			First(&last).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoUserMessage
			}
			return nil, err
		}
		content = last.Content
	} else {
		if content == "" {
			return nil, ErrEmptyContent
		}
		userMsg := &db.Message{
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			Role:           db.RoleUser,
			Content:        content,
			CreatedAt:      time.Now(),
		}
		if err := s.db.Create(userMsg).Error; err != nil {
			return nil, fmt.Errorf("failed to save user message: %w", err)
		}
		excludeID = userMsg.ID
	}

	pref := s.prefs.Get(userID)
	replyLang := lang.Effective(pref.DefaultLanguage, lang.Detect(content))

	out := make(chan string, 8)
	go func() {
		defer close(out)
		s.runTurn(ctx, out, conv, content, excludeID, replyLang, pref.Tone)
	}()
	return out, nil
}

func (s *ChatService) runTurn(ctx context.Context, out chan<- string, conv *db.Conversation, content, excludeID string, l lang.Lang, tone string) {
	if s.policy.Blocked(content) {
		s.logger.Info("policy blocked message", "conversation_id", conv.ID)
		refusal := coach.RefusalMessage(l)
		out <- refusal
		s.finishTurn(conv, l, tone, refusal, true)
		return
	}

	prompt := s.contextSvc.BuildPrompt(conv.UserID, conv.ID, content, excludeID, l, tone)

	gen, err := s.newGenerator(ctx, s.settings.Snapshot())
	if err != nil || !gen.Available() {
		if err != nil {
			s.logger.Warn("provider init failed, using fallback", "error", err)
		}
		s.fallback(out, conv, content, l, tone)
		return
	}

	quit := make(chan struct{})
	defer close(quit)

	// the producer opens the stream itself so the watchdog below also
	// bounds a hung connection, not just post-open silence
	tokens := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		stream, openErr := gen.Stream(ctx, prompt)
		if openErr != nil {
			errCh <- fmt.Errorf("stream open: %w", openErr)
			return
		}
		defer stream.Close()
		for {
			tok, recvErr := stream.Recv()
			if recvErr != nil {
				errCh <- recvErr
				return
			}
			select {
			case tokens <- tok:
			case <-quit:
				return
			}
		}
	}()

	timer := time.NewTimer(s.watchdog)
	defer timer.Stop()

	var acc strings.Builder

	// first token vs watchdog vs terminal error, resolved exactly once
	select {
	case tok := <-tokens:
		timer.Stop()
		acc.WriteString(tok)
		out <- tok
	case recvErr := <-errCh:
		if !errors.Is(recvErr, io.EOF) {
			s.logger.Warn("provider failed before first token, using fallback", "error", recvErr)
		}
		s.fallback(out, conv, content, l, tone)
		return
	case <-timer.C:
		s.logger.Warn("watchdog fired, using fallback", "conversation_id", conv.ID, "timeout", s.watchdog)
		s.fallback(out, conv, content, l, tone)
		return
	case <-ctx.Done():
		return
	}

	for {
		select {
		case tok := <-tokens:
			acc.WriteString(tok)
			out <- tok
		case recvErr := <-errCh:
			// after real output has started the fallback must never fire;
			// a mid-stream error finishes the turn with what we have
			if !errors.Is(recvErr, io.EOF) {
				s.logger.Warn("stream ended early, keeping partial reply", "error", recvErr)
			}
			s.finishTurn(conv, l, tone, strings.TrimSpace(acc.String()), false)
			return
		case <-ctx.Done():
			// client went away; the turn's writes still complete
			if text := strings.TrimSpace(acc.String()); text != "" {
				s.finishTurn(conv, l, tone, text, false)
			}
			return
		}
	}
}

// fallback computes the rule-based reply, emits it as if it were model
// output, and persists it the same way.
func (s *ChatService) fallback(out chan<- string, conv *db.Conversation, content string, l lang.Lang, tone string) {
	text := coach.BuildPlan(content, l)
	out <- text
	s.finishTurn(conv, l, tone, text, true)
}

// finishTurn persists the assistant message, touches the conversation, and
// notifies subscribers. A stored fallback reply is indistinguishable from
// a model reply.
func (s *ChatService) finishTurn(conv *db.Conversation, l lang.Lang, tone, text string, fallback bool) {
	if text == "" {
		return
	}

	msg := &db.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           db.RoleAssistant,
		Content:        text,
		CreatedAt:      time.Now(),
	}
	if err := s.db.Create(msg).Error; err != nil {
		s.logger.Error("failed to save assistant message", "conversation_id", conv.ID, "error", err)
		return
	}
	if err := s.db.Model(&db.Conversation{}).Where("id = ?", conv.ID).
		Update("updated_at", time.Now()).Error; err != nil {
		s.logger.Warn("failed to touch conversation", "conversation_id", conv.ID, "error", err)
	}

	if s.emitter != nil {
		s.emitter.Emit(event.ChatTurnCompletedEvent{
			UserID:         conv.UserID,
			ConversationID: conv.ID,
			Language:       string(l),
			Tone:           tone,
			Fallback:       fallback,
		})
	}
}
