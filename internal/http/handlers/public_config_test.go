package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicConfigHandler(t *testing.T) {
	h := NewPublicConfigHandler(PublicConfig{
		MapsAPIKey:           "maps-key",
		StripePublishableKey: "pk_test_123",
		SiteURL:              "https://plumbing.example.com.au",
	})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/public-config", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mapsApiKey":"maps-key","stripePublishableKey":"pk_test_123","siteUrl":"https://plumbing.example.com.au"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "sk_")
}
