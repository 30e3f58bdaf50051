package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const siteOrigin = "https://plumbing.example.com.au"

func corsRequest(t *testing.T, origins []string, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	h := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, called
}

func TestCORSSiteOriginCanReadRetryAfter(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", nil)
	req.Header.Set("Origin", siteOrigin)

	rec, called := corsRequest(t, []string{siteOrigin + "/"}, req)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != siteOrigin {
		t.Fatalf("expected site origin allowed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != "Retry-After" {
		t.Fatalf("expected Retry-After exposed, got %q", got)
	}
}

func TestCORSOtherOriginGetsNoGrant(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/instagram", nil)
	req.Header.Set("Origin", "https://competitor.example")

	rec, called := corsRequest(t, []string{siteOrigin}, req)

	if !called {
		t.Fatalf("expected handler to run; the browser enforces the missing grant")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header, got %q", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/instagram", nil)
	req.Header.Set("Origin", "https://random.example")

	rec, _ := corsRequest(t, []string{"*"}, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected wildcard to admit any origin")
	}
}

func TestCORSPreflightForPaymentIntent(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/create-payment-intent", nil)
	req.Header.Set("Origin", siteOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	rec, called := corsRequest(t, []string{siteOrigin}, req)

	if called {
		t.Fatalf("expected preflight to be answered by the middleware")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != siteOrigin {
		t.Fatalf("expected site origin allowed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Fatalf("expected POST allowed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Fatalf("expected Content-Type allowed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("expected preflight max age 600, got %q", got)
	}
}

func TestCORSPreflightRejectsUnusedVerb(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/send-email", nil)
	req.Header.Set("Origin", siteOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	rec, _ := corsRequest(t, []string{siteOrigin}, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected DELETE preflight to get no grant, got %q", got)
	}
}

func TestCORSNoOriginsPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/instagram", nil)
	req.Header.Set("Origin", siteOrigin)

	rec, called := corsRequest(t, []string{"", "  "}, req)

	if !called {
		t.Fatalf("expected handler to run")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers, got %q", got)
	}
}
