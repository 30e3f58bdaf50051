package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(h http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_FixedWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryWindowStoreWithClock(clock.Now)
	h := limitedHandler(NewRateLimiter(store, 3, time.Minute, nil))

	for i := 0; i < 3; i++ {
		if rec := hit(h, http.MethodPost, "/api/send-email", "203.0.113.7"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected status %d, got %d", i+1, http.StatusOK, rec.Code)
		}
	}

	clock.Advance(30 * time.Second)
	rec := hit(h, http.MethodPost, "/api/send-email", "203.0.113.7")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("expected Retry-After 30, got %q", got)
	}

	clock.Advance(30 * time.Second)
	if rec := hit(h, http.MethodPost, "/api/send-email", "203.0.113.7"); rec.Code != http.StatusOK {
		t.Fatalf("expected window reset, got %d", rec.Code)
	}
}

func TestRateLimit_KeyIncludesMethodAndPath(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	h := limitedHandler(NewRateLimiter(NewMemoryWindowStoreWithClock(clock.Now), 1, time.Minute, nil))

	if rec := hit(h, http.MethodPost, "/api/send-email", "198.51.100.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rec.Code)
	}
	if rec := hit(h, http.MethodPost, "/api/csp-report", "198.51.100.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected other path allowed, got %d", rec.Code)
	}
	if rec := hit(h, http.MethodGet, "/api/send-email", "198.51.100.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected other method allowed, got %d", rec.Code)
	}
	if rec := hit(h, http.MethodPost, "/api/send-email", "198.51.100.2"); rec.Code != http.StatusOK {
		t.Fatalf("expected other client allowed, got %d", rec.Code)
	}
	if rec := hit(h, http.MethodPost, "/api/send-email", "198.51.100.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected repeat blocked, got %d", rec.Code)
	}
}

func TestRateLimit_IgnoresClientSuppliedIPHeaders(t *testing.T) {
	h := limitedHandler(NewRateLimiter(NewMemoryWindowStore(), 1, time.Minute, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/instagram", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	req.Header.Set("X-Real-Ip", "192.0.2.10")
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/instagram", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	req.Header.Set("X-Real-Ip", "192.0.2.11")
	req.Header.Set("X-Forwarded-For", "192.0.2.12")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected rotated headers to share the peer's window, got %d", rec.Code)
	}
}

func TestMemoryWindowStore_EvictsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store := NewMemoryWindowStoreWithClock(clock.Now)
	ctx := context.Background()

	_, _, _ = store.Hit(ctx, "a", time.Minute)
	_, _, _ = store.Hit(ctx, "b", time.Minute)
	clock.Advance(2 * time.Minute)
	_, _, _ = store.Hit(ctx, "c", time.Minute)

	if store.Len() != 1 {
		t.Fatalf("expected expired keys evicted, have %d", store.Len())
	}
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	h := limitedHandler(NewRateLimiter(failingStore{}, 1, time.Minute, nil))

	for i := 0; i < 3; i++ {
		if rec := hit(h, http.MethodGet, "/api/instagram", "192.0.2.1"); rec.Code != http.StatusOK {
			t.Fatalf("expected request allowed when store fails, got %d", rec.Code)
		}
	}
}

func TestRedisWindowStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := limitedHandler(NewRateLimiter(NewRedisWindowStore(client, ""), 2, time.Minute, nil))

	for i := 0; i < 2; i++ {
		if rec := hit(h, http.MethodPost, "/api/create-payment-intent", "203.0.113.9"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected status %d, got %d", i+1, http.StatusOK, rec.Code)
		}
	}
	if rec := hit(h, http.MethodPost, "/api/create-payment-intent", "203.0.113.9"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if !mr.Exists("ratelimit:203.0.113.9|POST|/api/create-payment-intent") {
		t.Fatalf("expected namespaced counter key, have %v", mr.Keys())
	}

	mr.FastForward(61 * time.Second)
	if rec := hit(h, http.MethodPost, "/api/create-payment-intent", "203.0.113.9"); rec.Code != http.StatusOK {
		t.Fatalf("expected window reset, got %d", rec.Code)
	}
}
