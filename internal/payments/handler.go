package payments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/trades-booking-api/internal/http/httpjson"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

const maxRequestBody = 16 << 10

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type verifyRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type verifyResponse struct {
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Handler serves the payment API endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreatePaymentIntent handles POST /api/create-payment-intent.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	secret, err := h.service.CreateIntent(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			httpjson.Error(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrInvalidAmount):
			httpjson.Error(w, http.StatusBadRequest, "Invalid amount")
		case errors.Is(err, ErrInvalidBooking):
			httpjson.Error(w, http.StatusNotFound, "Invalid booking or email")
		default:
			h.logger.Error("create payment intent failed", "error", err)
			httpjson.Error(w, http.StatusInternalServerError, "Failed to create payment intent")
		}
		return
	}

	httpjson.Write(w, http.StatusOK, createIntentResponse{ClientSecret: secret})
}

// VerifyPayment handles POST /api/verify-payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Payment intent ID is required")
		return
	}

	intent, err := h.service.Verify(r.Context(), req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, ErrMissingIntentID) {
			httpjson.Error(w, http.StatusBadRequest, "Payment intent ID is required")
			return
		}
		h.logger.Error("verify payment failed", "error", err, "payment_intent_id", req.PaymentIntentID)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to verify payment")
		return
	}

	httpjson.Write(w, http.StatusOK, verifyResponse{
		Status:   intent.Status,
		Amount:   intent.Amount,
		Currency: intent.Currency,
	})
}
