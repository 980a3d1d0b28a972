package cache

import (
	"testing"
	"time"

	"github.com/use-agent/seotest/models"
)

func newTestCache(max int, ttl time.Duration) (*Cache, *time.Time) {
	c := New(max, ttl)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestKey_Normalises(t *testing.T) {
	if Key("https://example.com/") != Key(" https://example.com") {
		t.Error("trailing slash and whitespace should not change the key")
	}
	if Key("https://example.com/a") == Key("https://example.com/b") {
		t.Error("different URLs share a key")
	}
}

func TestCache_GetSet(t *testing.T) {
	c, clock := newTestCache(10, time.Hour)
	defer c.Close()

	k := Key("https://example.com")
	c.Set(k, &models.ScrapeResponse{Success: true, Title: "Home"})

	if _, hit := c.Get(k, 0); hit {
		t.Error("maxAge 0 should skip the cache")
	}

	got, hit := c.Get(k, 60_000)
	if !hit || got.Title != "Home" {
		t.Fatalf("Get = %v, %v", got, hit)
	}

	got.Title = "changed"
	again, _ := c.Get(k, 60_000)
	if again.Title != "Home" {
		t.Error("caller mutation leaked into the cache")
	}

	*clock = clock.Add(2 * time.Minute)
	if _, hit := c.Get(k, 60_000); hit {
		t.Error("entry older than maxAge should miss")
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c, clock := newTestCache(2, time.Hour)
	defer c.Close()

	c.Set("a", &models.ScrapeResponse{Title: "a"})
	*clock = clock.Add(time.Second)
	c.Set("b", &models.ScrapeResponse{Title: "b"})
	*clock = clock.Add(time.Second)
	c.Set("c", &models.ScrapeResponse{Title: "c"})

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, hit := c.Get("a", 60_000); hit {
		t.Error("oldest entry should have been evicted")
	}
	if _, hit := c.Get("c", 60_000); !hit {
		t.Error("newest entry missing")
	}
}

func TestCache_EvictExpired(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("a", &models.ScrapeResponse{})
	*clock = clock.Add(2 * time.Minute)
	c.Set("b", &models.ScrapeResponse{})

	c.evictExpired()
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}
