package ai

import (
	"testing"
	"time"
)

func TestSettingsCache_ExpiresAfterTTL(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSettingsCache(time.Minute, func() time.Time { return clock })

	c.Set("ai.provider", "openai")
	if v, ok := c.Get("ai.provider"); !ok || v != "openai" {
		t.Fatalf("fresh entry: got (%q, %v)", v, ok)
	}

	clock = clock.Add(59 * time.Second)
	if _, ok := c.Get("ai.provider"); !ok {
		t.Fatal("entry expired before TTL")
	}

	clock = clock.Add(2 * time.Second)
	if v, ok := c.Get("ai.provider"); ok {
		t.Fatalf("entry survived past TTL: %q", v)
	}
}

func TestSettingsCache_SetRefreshesExpiry(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSettingsCache(time.Minute, func() time.Time { return clock })

	c.Set("k", "v1")
	clock = clock.Add(50 * time.Second)
	c.Set("k", "v2")
	clock = clock.Add(50 * time.Second)

	if v, ok := c.Get("k"); !ok || v != "v2" {
		t.Fatalf("refreshed entry: got (%q, %v), want (v2, true)", v, ok)
	}
}

func TestSettingsCache_Invalidate(t *testing.T) {
	c := NewSettingsCache(time.Minute, nil)
	c.Set("k", "v")
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("invalidated entry still present")
	}
}
