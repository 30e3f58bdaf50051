package handlers

import (
	"net/http"

	"github.com/wolfman30/trades-booking-api/internal/http/httpjson"
)

// PublicConfig is the browser-safe configuration the site bootstraps from.
type PublicConfig struct {
	MapsAPIKey           string `json:"mapsApiKey"`
	StripePublishableKey string `json:"stripePublishableKey"`
	SiteURL              string `json:"siteUrl"`
}

// PublicConfigHandler serves PublicConfig. Secrets never pass through it.
type PublicConfigHandler struct {
	cfg PublicConfig
}

func NewPublicConfigHandler(cfg PublicConfig) *PublicConfigHandler {
	return &PublicConfigHandler{cfg: cfg}
}

func (h *PublicConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpjson.Write(w, http.StatusOK, h.cfg)
}
