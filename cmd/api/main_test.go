package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appconfig "github.com/wolfman30/trades-booking-api/internal/config"
)

func TestSetupSiteMetricsExposesMetrics(t *testing.T) {
	handler, siteMetrics := setupSiteMetrics()
	if handler == nil || siteMetrics == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	siteMetrics.ObserveBookingSubmission("ok")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "trades_bookings_submissions_total") {
		t.Fatalf("expected submissions counter to be exported")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected runtime collectors to be exported")
	}
}

func TestNeedsAWS(t *testing.T) {
	if needsAWS(&appconfig.Config{EmailProvider: "resend"}) {
		t.Fatalf("resend without bucket should not need AWS")
	}
	if !needsAWS(&appconfig.Config{EmailProvider: "ses"}) {
		t.Fatalf("ses needs AWS")
	}
	if !needsAWS(&appconfig.Config{InstagramFeedBucket: "site-assets"}) {
		t.Fatalf("s3 feed needs AWS")
	}
}

func TestCORSOriginsDefaultsToSite(t *testing.T) {
	got := corsOrigins(&appconfig.Config{PublicSiteURL: "https://plumbing.example.com.au"})
	if len(got) != 1 || got[0] != "https://plumbing.example.com.au" {
		t.Fatalf("unexpected origins %v", got)
	}
	got = corsOrigins(&appconfig.Config{CORSAllowedOrigins: []string{"*"}, PublicSiteURL: "https://x"})
	if len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected explicit allowlist to win, got %v", got)
	}
}
