package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestGetQuote tests the GetQuote method.
func TestGetQuote(t *testing.T) {
	t.Run("successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/quotes/SPY" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/quotes/SPY")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"symbol": "SPY", "price": 471.25, "time": "2024-01-16T10:00:12-05:00"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		sample, err := c.GetQuote(context.Background(), "spy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sample.Price != 471.25 {
			t.Errorf("Price = %v, want 471.25", sample.Price)
		}
		want := time.Date(2024, 1, 16, 15, 0, 12, 0, time.UTC)
		if !sample.Time.Equal(want) {
			t.Errorf("Time = %v, want %v", sample.Time, want)
		}
	})

	t.Run("missing timestamp uses clock", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"symbol": "AAPL", "price": 185.1}`))
		}))
		defer server.Close()

		now := time.Date(2024, 1, 16, 15, 30, 0, 0, time.UTC)
		c := NewClient(server.URL, "key", WithClock(func() time.Time { return now }))
		sample, err := c.GetQuote(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sample.Time.Equal(now) {
			t.Errorf("Time = %v, want %v", sample.Time, now)
		}
	})

	t.Run("non-positive price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"symbol": "SPY", "price": 0}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		_, err := c.GetQuote(context.Background(), "SPY")
		if err == nil || !strings.Contains(err.Error(), "invalid price") {
			t.Errorf("error = %v, want invalid price", err)
		}
	})

	t.Run("empty symbol", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", "key")
		if _, err := c.GetQuote(context.Background(), ""); err == nil {
			t.Error("expected error for empty symbol")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		_, err := c.GetQuote(context.Background(), "SPY")
		if err == nil || !strings.Contains(err.Error(), "decode /quotes/SPY") {
			t.Errorf("error = %v, want decode error", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(3, 10*time.Millisecond))
		_, err := c.GetQuote(context.Background(), "ZZZZ")
		if err == nil || !strings.Contains(err.Error(), "404") {
			t.Errorf("error = %v, want 404", err)
		}
	})
}

// TestWithRateLimit tests request pacing.
func TestWithRateLimit(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		c := NewClient("https://api.example.com", "")
		if c.limiter != nil {
			t.Error("limiter should be nil by default")
		}
	})

	t.Run("zero disables", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithRateLimit(0))
		if c.limiter != nil {
			t.Error("limiter should be nil for zero rate")
		}
	})

	t.Run("fractional rate gets burst of one", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithRateLimit(0.5))
		if c.limiter == nil {
			t.Fatal("limiter should be set")
		}
		if c.limiter.Burst() != 1 {
			t.Errorf("Burst() = %d, want 1", c.limiter.Burst())
		}
	})

	t.Run("paces requests", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"symbol": "SPY", "price": 1}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRateLimit(20))
		start := time.Now()
		for i := 0; i < 25; i++ {
			if _, err := c.GetQuote(context.Background(), "SPY"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		// 20 burst tokens, then 5 more at 50ms each.
		if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
			t.Errorf("elapsed = %v, want >= 200ms", elapsed)
		}
		if attempts != 25 {
			t.Errorf("attempts = %d, want 25", attempts)
		}
	})

	t.Run("wait honors context", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", "key", WithRateLimit(0.001))
		c.limiter.Allow() // drain the single token

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.GetQuote(ctx, "SPY")
		if err == nil || !strings.Contains(err.Error(), "rate limit") {
			t.Errorf("error = %v, want rate limit error", err)
		}
	})
}
