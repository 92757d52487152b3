package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dishaapp/disha/pkg/ai"
	"github.com/dishaapp/disha/pkg/config"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/service"
)

// newAdminRouter builds a router with real accounts; the returned pointer
// selects which session the middleware stub impersonates.
func newAdminRouter(t *testing.T) (*gin.Engine, *string, *service.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	cfg := &config.AppConfig{}
	emitter := event.NewEmitter()
	settings := service.NewSettingsService(gdb, cfg, ai.NewSettingsCache(time.Minute, nil), emitter)
	users := service.NewUserService(gdb)

	current := ""
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) { c.Set("user_id", current) })
	NewAdminHandler(settings, users).RegisterRoutes(api)
	return r, &current, users
}

func TestAdminSettings_RequiresAdminRole(t *testing.T) {
	r, current, users := newAdminRouter(t)

	owner, err := users.Register("owner@example.com", "correct horse")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	guest, err := users.Register("guest@example.com", "battery staple")
	if err != nil {
		t.Fatalf("register guest: %v", err)
	}

	*current = owner.ID
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/settings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("admin GET: got %d, want 200", w.Code)
	}

	*current = guest.ID
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/settings", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin GET: got %d, want 403", w.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/settings",
		strings.NewReader(`{"provider":"openai","openai_api_key":"sk-stolen"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin PUT: got %d, want 403", w.Code)
	}
}
