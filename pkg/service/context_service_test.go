package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/lang"
)

func newContextEnv(t *testing.T) (*ContextService, *gorm.DB, string, string) {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	userID := uuid.New().String()
	conv := db.Conversation{ID: uuid.New().String(), UserID: userID, Title: "t", Status: db.ConversationStatusActive}
	if err := gdb.Create(&conv).Error; err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	return NewContextService(gdb), gdb, userID, conv.ID
}

func TestTranscript_TruncationBounds(t *testing.T) {
	svc, gdb, _, convID := newContextEnv(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 50; i++ {
		role := db.RoleUser
		if i%2 == 1 {
			role = db.RoleAssistant
		}
		msg := db.Message{
			ID:             uuid.New().String(),
			ConversationID: convID,
			Role:           role,
			Content:        fmt.Sprintf("message %02d %s", i, strings.Repeat("x", 1500)),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := gdb.Create(&msg).Error; err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	transcript := svc.transcript(convID, "")
	lines := strings.Split(transcript, "\n")

	if len(lines) != maxTranscriptMessages {
		t.Fatalf("transcript has %d lines, want the last %d messages", len(lines), maxTranscriptMessages)
	}
	// only the most recent messages survive, in chronological order
	if !strings.Contains(lines[0], "message 30") {
		t.Errorf("first line should be message 30, got %q", lines[0][:40])
	}
	if !strings.Contains(lines[len(lines)-1], "message 49") {
		t.Errorf("last line should be message 49, got %q", lines[len(lines)-1][:40])
	}
	for i, line := range lines {
		if n := len([]rune(line)); n > maxTranscriptLineChars+len("assistant: ") {
			t.Errorf("line %d has %d chars, want content capped at %d", i, n, maxTranscriptLineChars)
		}
	}
}

func TestTranscript_ExcludesCurrentMessage(t *testing.T) {
	svc, gdb, _, convID := newContextEnv(t)

	older := db.Message{ID: uuid.New().String(), ConversationID: convID, Role: db.RoleUser, Content: "older", CreatedAt: time.Now().Add(-time.Minute)}
	current := db.Message{ID: uuid.New().String(), ConversationID: convID, Role: db.RoleUser, Content: "the current one", CreatedAt: time.Now()}
	for _, m := range []db.Message{older, current} {
		if err := gdb.Create(&m).Error; err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	transcript := svc.transcript(convID, current.ID)
	if strings.Contains(transcript, "the current one") {
		t.Error("just-inserted user message must not appear in the transcript")
	}
	if !strings.Contains(transcript, "older") {
		t.Error("earlier message missing from transcript")
	}
}

func TestBuildPrompt_SectionOrderAndSummaryCap(t *testing.T) {
	svc, gdb, userID, convID := newContextEnv(t)

	longSummary := strings.Repeat("s", 3000)
	if err := gdb.Model(&db.Conversation{}).Where("id = ?", convID).
		Update("summary", longSummary).Error; err != nil {
		t.Fatalf("set summary: %v", err)
	}

	prompt := svc.BuildPrompt(userID, convID, "kya plan hai aaj", "", lang.Hinglish, db.ToneEmpathetic)

	summaryIdx := strings.Index(prompt, "What you remember")
	currentIdx := strings.Index(prompt, "Current message from the user")
	if summaryIdx == -1 || currentIdx == -1 || summaryIdx > currentIdx {
		t.Fatal("summary section must precede the current message")
	}
	if strings.Contains(prompt, strings.Repeat("s", maxSummaryChars+1)) {
		t.Errorf("summary was not truncated to %d chars", maxSummaryChars)
	}
	if !strings.Contains(prompt, "Hinglish") {
		t.Error("prompt missing the language-mirroring directive")
	}
	if !strings.HasSuffix(prompt, "kya plan hai aaj") {
		t.Error("current message must be the final section")
	}
}

func TestActivitySnippet_DegradesToEmpty(t *testing.T) {
	svc, _, userID, _ := newContextEnv(t)

	// no goals at all
	if got := svc.ActivitySnippet(userID, chatLogWindowDays); got != "" {
		t.Errorf("snippet without goals should be empty, got %q", got)
	}
}

func TestActivitySnippet_RendersRatio(t *testing.T) {
	svc, gdb, userID, _ := newContextEnv(t)

	goal := db.Goal{ID: uuid.New().String(), UserID: userID, Title: "Morning run", Category: "fitness", TargetFrequency: "daily", Status: db.GoalStatusActive}
	if err := gdb.Create(&goal).Error; err != nil {
		t.Fatalf("create goal: %v", err)
	}
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	logs := []db.GoalLog{
		{ID: uuid.New().String(), GoalID: goal.ID, UserID: userID, Completed: true, LogDate: today},
		{ID: uuid.New().String(), GoalID: goal.ID, UserID: userID, Completed: false, LogDate: yesterday},
	}
	for _, l := range logs {
		if err := gdb.Create(&l).Error; err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	got := svc.ActivitySnippet(userID, chatLogWindowDays)
	if !strings.Contains(got, "Morning run") {
		t.Errorf("snippet missing goal title: %q", got)
	}
	if !strings.Contains(got, "1/2 completed in last 3 days") {
		t.Errorf("snippet missing completion ratio: %q", got)
	}
}
