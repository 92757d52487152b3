// Chat HTTP handlers: conversation CRUD and the event-stream chat turn.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/service"
)

// ChatHandler handles chat-related HTTP requests.
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterRoutes registers chat routes on an authenticated group.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	conversations := r.Group("/conversations")
	{
		conversations.POST("", h.CreateConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id", h.GetConversation)
		conversations.DELETE("/:id", h.DeleteConversation)
		conversations.GET("/:id/messages", h.GetMessages)
		conversations.POST("/:id/chat", h.StreamChat)
	}
}

// CreateConversation creates a new conversation.
// POST /api/v1/conversations
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.chatService.CreateConversation(c.GetString("user_id"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// ListConversations lists the caller's conversations.
// GET /api/v1/conversations?status=&limit=&offset=
func (h *ChatHandler) ListConversations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	conversations, hasMore, err := h.chatService.ListConversations(c.GetString("user_id"), c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations, "has_more": hasMore})
}

// GetConversation returns one conversation.
// GET /api/v1/conversations/:id
func (h *ChatHandler) GetConversation(c *gin.Context) {
	conv, err := h.chatService.GetConversation(c.GetString("user_id"), c.Param("id"))
	if err != nil {
		c.JSON(conversationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// DeleteConversation removes a conversation and its messages.
// DELETE /api/v1/conversations/:id
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	if err := h.chatService.DeleteConversation(c.GetString("user_id"), c.Param("id")); err != nil {
		c.JSON(conversationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetMessages returns the conversation transcript.
// GET /api/v1/conversations/:id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.GetMessages(c.GetString("user_id"), c.Param("id"))
	if err != nil {
		c.JSON(conversationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// StreamChat runs one chat turn over an event stream. Fragments are sent
// as data records; a single "event: done" record ends every response,
// error paths included. Consumers must treat the done event, not the
// connection close, as end of turn.
// POST /api/v1/conversations/:id/chat
func (h *ChatHandler) StreamChat(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		streamError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	chunks, err := h.chatService.StreamTurn(c.Request.Context(), c.GetString("user_id"), c.Param("id"), &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrNoUserMessage):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrNotConversationOwner):
			status = http.StatusForbidden
		case errors.Is(err, service.ErrConversationNotFound):
			status = http.StatusNotFound
		}
		streamError(c, status, err.Error())
		return
	}

	w := c.Writer
	for chunk := range chunks {
		writeDataRecord(w, chunk)
		w.Flush()
	}

	fmt.Fprint(w, "event: done\n\n")
	w.Flush()
}

// writeDataRecord frames text as one SSE data record; embedded newlines
// become data continuation lines within the same record.
func writeDataRecord(w gin.ResponseWriter, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// streamError answers a pre-stream failure: a JSON error data record and
// the done event, with a non-2xx status.
func streamError(c *gin.Context, status int, msg string) {
	c.Status(status)
	data, _ := json.Marshal(gin.H{"error": msg})
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	fmt.Fprint(c.Writer, "event: done\n\n")
	c.Writer.Flush()
}

func conversationErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotConversationOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
