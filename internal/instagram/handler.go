package instagram

import (
	"errors"
	"net/http"

	"github.com/wolfman30/trades-booking-api/internal/http/httpjson"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// Handler serves the stored feed.
type Handler struct {
	source Source
	logger *logging.Logger
}

func NewHandler(source Source, logger *logging.Logger) *Handler {
	return &Handler{source: source, logger: logger.Component("instagram")}
}

// Serve writes the feed bytes as stored.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	data, err := h.source.Read(r.Context())
	if errors.Is(err, ErrFeedNotFound) {
		httpjson.Error(w, http.StatusNotFound, "Feed not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to read instagram feed", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to load feed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
