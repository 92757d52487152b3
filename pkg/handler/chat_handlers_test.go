package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/coach"
	"github.com/dishaapp/disha/pkg/config"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/service"
)

// newChatRouter builds a router around a chat service whose provider is
// unavailable, so every turn takes the deterministic fallback path.
func newChatRouter(t *testing.T) (*gin.Engine, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// with no provider keys the generator resolves to none and every
	// turn takes the fallback path
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := &config.AppConfig{}
	emitter := event.NewEmitter()
	settings := service.NewSettingsService(gdb, cfg, ai.NewSettingsCache(time.Minute, nil), emitter)
	chatService := service.NewChatService(gdb, settings, service.NewContextService(gdb),
		service.NewPreferenceService(gdb), coach.NewPolicy(nil), emitter)

	userID := uuid.New().String()
	if err := gdb.Create(&db.User{ID: userID, Email: "h@example.com", PasswordHash: "x"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	conv, err := chatService.CreateConversation(userID, &models.CreateConversationRequest{Title: "t"})
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	NewChatHandler(chatService).RegisterRoutes(api)
	return r, userID, conv.ID
}

func TestStreamChat_EmitsDataAndOneDone(t *testing.T) {
	r, _, convID := newChatRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+convID+"/chat",
		strings.NewReader(`{"content":"How do I stay motivated to study?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q, want text/event-stream", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "data: ") {
		t.Error("response has no data records")
	}
	if n := strings.Count(body, "event: done\n\n"); n != 1 {
		t.Fatalf("done event sent %d times, want exactly once", n)
	}
	if !strings.HasSuffix(body, "event: done\n\n") {
		t.Error("done event must terminate the stream")
	}
}

func TestStreamChat_UnknownConversation(t *testing.T) {
	r, _, _ := newChatRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+uuid.New().String()+"/chat",
		strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `data: {"error"`) {
		t.Errorf("error must be a JSON data record, got %q", body)
	}
	if n := strings.Count(body, "event: done\n\n"); n != 1 {
		t.Fatalf("done event sent %d times, want exactly once", n)
	}
}

func TestStreamChat_EmptyContent(t *testing.T) {
	r, _, convID := newChatRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+convID+"/chat",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if n := strings.Count(w.Body.String(), "event: done\n\n"); n != 1 {
		t.Fatalf("done event sent %d times, want exactly once", n)
	}
}
