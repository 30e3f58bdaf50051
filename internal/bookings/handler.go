package bookings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/trades-booking-api/internal/http/httpjson"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

const maxSubmitBody = 64 << 10

// SubmitResponse acknowledges an accepted booking.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler handles HTTP requests for bookings
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new bookings handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Submit handles POST /api/send-email requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBody)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.service.Submit(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			httpjson.Error(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrInvalidPhone):
			httpjson.Error(w, http.StatusBadRequest, "Invalid phone number")
		default:
			h.logger.Error("failed to create booking", "error", err)
			httpjson.Error(w, http.StatusInternalServerError, "Failed to save booking")
		}
		return
	}

	httpjson.Write(w, http.StatusOK, SubmitResponse{
		Success: true,
		Message: "Booking request received",
	})
}
