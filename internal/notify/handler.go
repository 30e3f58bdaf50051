package notify

import (
	"errors"
	"net/http"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
	"github.com/wolfman30/trades-booking-api/internal/http/httpjson"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

type messageResponse struct {
	Message string `json:"message"`
}

// PaymentEmailHandler exposes the operator-triggered payment email.
type PaymentEmailHandler struct {
	service *Service
	logger  *logging.Logger
}

func NewPaymentEmailHandler(service *Service, logger *logging.Logger) *PaymentEmailHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PaymentEmailHandler{service: service, logger: logger}
}

// Send handles GET /api/send-payment-email?booking_id=...
func (h *PaymentEmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	bookingID := r.URL.Query().Get("booking_id")

	err := h.service.SendPaymentRequest(r.Context(), bookingID)
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusOK, messageResponse{Message: "Payment email sent successfully"})
	case errors.Is(err, ErrMissingBookingID):
		httpjson.Error(w, http.StatusBadRequest, "Booking ID is required")
	case errors.Is(err, bookings.ErrBookingNotFound):
		httpjson.Error(w, http.StatusNotFound, "Booking not found")
	default:
		h.logger.Error("send payment email failed", "error", err, "booking_id", bookingID)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to send payment email")
	}
}
