package lang

import (
	"strconv"
	"testing"
	"time"
)

// BenchmarkCacheHit measures the hot path: repeated reads of a live entry.
func BenchmarkCacheHit(b *testing.B) {
	c := NewCache(1000, time.Minute)
	c.Set("key", "value")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, ok := c.Get("key"); !ok {
			b.Fatal("unexpected miss")
		}
	}
}

// BenchmarkCacheSetWithEviction measures inserts into a full cache, where
// every Set must scan for the least recently accessed entry.
func BenchmarkCacheSetWithEviction(b *testing.B) {
	c := NewCache(100, time.Minute)

	for i := range 100 {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.Set("new"+strconv.Itoa(i), i)
	}
}

// BenchmarkFingerprint measures key derivation for a typical cached
// directory operation.
func BenchmarkFingerprint(b *testing.B) {
	c := NewCache(1000, time.Minute)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.Fingerprint("dir.find", "/home/user/project", "**/*.go")
	}
}

// BenchmarkExecuteArithmetic measures whole-pipeline evaluation of a small
// expression, parse included.
func BenchmarkExecuteArithmetic(b *testing.B) {
	ip := New()
	defer ip.Shutdown()

	ctx := b.Context()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if r := ip.Execute(ctx, "1 + 2 * 3 - 4 / 5"); !r.Success {
			b.Fatal(r.Error)
		}
	}
}
