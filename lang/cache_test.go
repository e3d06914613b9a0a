package lang

import (
	"fmt"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := NewCache(10, time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("k", "v")

	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Errorf("expected hit with v, got %v, %v", v, ok)
	}
}

func TestCache_TTLExpiryCountsAsMiss(t *testing.T) {
	c := NewCache(10, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}

	stats := c.Stats()
	if stats.Misses != 1 || stats.Hits != 0 {
		t.Errorf("expected 1 miss, 0 hits; got %d, %d", stats.Misses, stats.Hits)
	}

	// Expired entries are evicted on read.
	if c.Len() != 0 {
		t.Errorf("expected expired entry evicted, len = %d", c.Len())
	}
}

func TestCache_EvictsLeastRecentlyAccessed(t *testing.T) {
	c := NewCache(3, time.Minute)

	c.Set("a", 1)
	time.Sleep(time.Millisecond)
	c.Set("b", 2)
	time.Sleep(time.Millisecond)
	c.Set("c", 3)
	time.Sleep(time.Millisecond)

	// Touch "a" so "b" becomes the oldest access.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	time.Sleep(time.Millisecond)
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b evicted")
	}

	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %q retained", key)
		}
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := NewCache(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}

	v, ok := c.Get("a")
	if !ok || v != 10 {
		t.Errorf("expected updated value 10, got %v", v)
	}
}

func TestCache_Stats(t *testing.T) {
	c := NewCache(10, time.Minute)

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("gone")

	stats := c.Stats()

	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("expected 2 hits, 1 miss; got %d, %d", stats.Hits, stats.Misses)
	}

	want := 2.0 / 3.0
	if stats.HitRate < want-1e-9 || stats.HitRate > want+1e-9 {
		t.Errorf("expected hit rate %v, got %v", want, stats.HitRate)
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(10, time.Minute)

	c.Set("k", "v")
	c.Get("k")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, len = %d", c.Len())
	}

	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("expected reset counters, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestCache_FingerprintStable(t *testing.T) {
	c := NewCache(10, time.Minute)

	a := c.Fingerprint("dir.find", "/tmp", "*.go")
	b := c.Fingerprint("dir.find", "/tmp", "*.go")

	if a != b {
		t.Errorf("same inputs produced different fingerprints: %s vs %s", a, b)
	}

	if len(a) != 32 {
		t.Errorf("expected 32 hex digits, got %d (%s)", len(a), a)
	}
}

func TestCache_FingerprintDistinguishesArgBoundaries(t *testing.T) {
	c := NewCache(10, time.Minute)

	// "ab"+"c" and "a"+"bc" must not collide.
	a := c.Fingerprint("op", "ab", "c")
	b := c.Fingerprint("op", "a", "bc")

	if a == b {
		t.Error("argument boundaries not part of the fingerprint")
	}

	if c.Fingerprint("op", "x") == c.Fingerprint("other", "x") {
		t.Error("operation name not part of the fingerprint")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(64, time.Minute)

	done := make(chan struct{})

	for w := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()

			for i := range 200 {
				key := fmt.Sprintf("k%d", (w*31+i)%50)
				c.Set(key, i)
				c.Get(key)
			}
		}()
	}

	for range 8 {
		<-done
	}

	if c.Len() > 64 {
		t.Errorf("cache exceeded capacity: %d", c.Len())
	}
}
