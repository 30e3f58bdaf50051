package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

const maxWebhookBody = 64 << 10

type statusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status bookings.Status) error
	UpdateStatusUnlessPaid(ctx context.Context, id string, status bookings.Status) (bool, error)
}

// EventLedger remembers handled provider events so Stripe retries and
// replays are applied once.
type EventLedger interface {
	AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

const ledgerProvider = "stripe"

// StripeWebhookHandler keeps booking status in step with PaymentIntent events.
type StripeWebhookHandler struct {
	webhookSecret string
	bookings      statusUpdater
	ledger        EventLedger
	logger        *logging.Logger
}

// NewStripeWebhookHandler creates a new handler for Stripe webhooks.
func NewStripeWebhookHandler(webhookSecret string, store statusUpdater, logger *logging.Logger) *StripeWebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StripeWebhookHandler{
		webhookSecret: webhookSecret,
		bookings:      store,
		logger:        logger,
	}
}

// SetLedger enables duplicate event suppression.
func (h *StripeWebhookHandler) SetLedger(ledger EventLedger) {
	h.ledger = ledger
}

// Handle processes incoming Stripe webhook events.
func (h *StripeWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" {
		h.logger.Error("stripe webhook secret not configured")
		http.Error(w, "webhook not configured", http.StatusInternalServerError)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		h.logger.Warn("stripe webhook signature verification failed", "error", err)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var status bookings.Status
	switch event.Type {
	case "payment_intent.succeeded":
		status = bookings.StatusPaid
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = bookings.StatusFailed
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.ledger != nil {
		seen, err := h.ledger.AlreadyProcessed(r.Context(), ledgerProvider, event.ID)
		if err != nil {
			h.logger.Error("failed to check processed events", "error", err, "event_id", event.ID)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		if seen {
			h.logger.Info("duplicate stripe event ignored", "event_id", event.ID)
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		h.logger.Error("failed to decode payment intent", "error", err, "event_id", event.ID)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	bookingID := pi.Metadata["booking_id"]
	if bookingID == "" {
		h.logger.Warn("stripe webhook missing booking metadata", "event_id", event.ID, "payment_intent_id", pi.ID)
		// Acknowledge to prevent retries; nothing to update.
		w.WriteHeader(http.StatusOK)
		return
	}

	updated, err := h.applyStatus(r.Context(), bookingID, status)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			h.logger.Warn("stripe webhook for unknown booking", "booking_id", bookingID, "event_id", event.ID)
			h.markProcessed(r.Context(), event.ID)
			w.WriteHeader(http.StatusOK)
			return
		}
		h.logger.Error("failed to update booking from webhook", "error", err, "booking_id", bookingID)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if !updated {
		h.logger.Info("stripe failure event for paid booking ignored",
			"booking_id", bookingID,
			"payment_intent_id", pi.ID,
			"event_type", string(event.Type),
		)
		h.markProcessed(r.Context(), event.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	h.logger.Info("booking status updated from stripe",
		"booking_id", bookingID,
		"payment_intent_id", pi.ID,
		"event_type", string(event.Type),
		"status", status,
	)
	h.markProcessed(r.Context(), event.ID)
	w.WriteHeader(http.StatusOK)
}

// applyStatus never moves a paid booking to failed: events for older intents
// on the same booking can arrive after the one that succeeded.
func (h *StripeWebhookHandler) applyStatus(ctx context.Context, bookingID string, status bookings.Status) (bool, error) {
	if status == bookings.StatusPaid {
		return true, h.bookings.UpdateStatus(ctx, bookingID, status)
	}
	return h.bookings.UpdateStatusUnlessPaid(ctx, bookingID, status)
}

func (h *StripeWebhookHandler) markProcessed(ctx context.Context, eventID string) {
	if h.ledger == nil {
		return
	}
	if _, err := h.ledger.MarkProcessed(ctx, ledgerProvider, eventID); err != nil {
		h.logger.Warn("failed to record processed stripe event", "error", err, "event_id", eventID)
	}
}
