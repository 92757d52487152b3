package auth

import (
	"strings"
	"testing"
)

func TestSessions_IssueAndVerify(t *testing.T) {
	s := NewSessions("test-secret")

	token := s.Issue("user-123")
	userID, ok := s.Verify(token)
	if !ok || userID != "user-123" {
		t.Fatalf("Verify = (%q, %v), want (user-123, true)", userID, ok)
	}
}

func TestSessions_RejectsTampering(t *testing.T) {
	s := NewSessions("test-secret")
	token := s.Issue("user-123")

	tampered := strings.Replace(token, "user-123", "user-456", 1)
	if _, ok := s.Verify(tampered); ok {
		t.Fatal("tampered token verified")
	}
}

func TestSessions_RejectsWrongSecret(t *testing.T) {
	token := NewSessions("secret-a").Issue("user-123")
	if _, ok := NewSessions("secret-b").Verify(token); ok {
		t.Fatal("token signed with different secret verified")
	}
}

func TestSessions_RejectsGarbage(t *testing.T) {
	s := NewSessions("test-secret")
	for _, token := range []string{"", "abc", "a|b", "a|b|c|d"} {
		if _, ok := s.Verify(token); ok {
			t.Fatalf("garbage token %q verified", token)
		}
	}
}
