package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/wolfman30/trades-booking-api/internal/http/httpjson"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// WindowStore counts hits per key in fixed windows.
type WindowStore interface {
	// Hit records one request for key and returns the count inside the
	// current window plus the time left before that window ends.
	Hit(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

// MemoryWindowStore keeps window counters in process memory. Counters are
// lost on restart.
type MemoryWindowStore struct {
	mu        sync.Mutex
	windows   map[string]*fixedWindow
	now       func() time.Time
	lastSweep time.Time
}

type fixedWindow struct {
	count   int
	resetAt time.Time
}

// NewMemoryWindowStore creates an in-memory store using the wall clock.
func NewMemoryWindowStore() *MemoryWindowStore {
	return NewMemoryWindowStoreWithClock(time.Now)
}

// NewMemoryWindowStoreWithClock creates an in-memory store driven by now.
func NewMemoryWindowStoreWithClock(now func() time.Time) *MemoryWindowStore {
	return &MemoryWindowStore{
		windows: make(map[string]*fixedWindow),
		now:     now,
	}
}

// Hit implements WindowStore.
func (s *MemoryWindowStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

// sweep drops expired windows at most once per window length.
func (s *MemoryWindowStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	s.lastSweep = now
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}

// Len returns the number of tracked keys.
func (s *MemoryWindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// RateLimitRecorder counts rejected requests.
type RateLimitRecorder interface {
	ObserveRateLimited(path string)
}

// RateLimiter allows limit requests per key in each fixed window.
type RateLimiter struct {
	store   WindowStore
	limit   int
	window  time.Duration
	logger  *logging.Logger
	metrics RateLimitRecorder
}

// SetRecorder attaches a metrics recorder for rejected requests.
func (rl *RateLimiter) SetRecorder(r RateLimitRecorder) {
	rl.metrics = r
}

// NewRateLimiter creates a limiter over store.
func NewRateLimiter(store WindowStore, limit int, window time.Duration, logger *logging.Logger) *RateLimiter {
	if store == nil {
		store = NewMemoryWindowStore()
	}
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RateLimiter{store: store, limit: limit, window: window, logger: logger}
}

// Allow records a request for key. When the limit is exceeded it returns
// false with the time left until the window resets. Store errors fail open.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	count, ttl, err := rl.store.Hit(ctx, key, rl.window)
	if err != nil {
		rl.logger.Warn("rate limit store unavailable, allowing request", "error", err)
		return true, 0
	}
	if count > rl.limit {
		return false, ttl
	}
	return true, 0
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
// Requests are keyed by client address, method and path.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + "|" + r.Method + "|" + r.URL.Path
			allowed, retryAfter := rl.Allow(r.Context(), key)
			if !allowed {
				secs := int(retryAfter.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				if rl.metrics != nil {
					rl.metrics.ObserveRateLimited(r.URL.Path)
				}
				httpjson.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the socket peer, or the forwarded client address once ClientIP
// has rewritten RemoteAddr. Request headers are never read directly.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
