package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

const (
	// Currency is the fixed settlement currency.
	Currency = "aud"

	// maxAmount is Stripe's upper bound for a single charge in minor units.
	maxAmount = 99999999
)

// BookingStore is the booking lookup and status update the payment flow needs.
type BookingStore interface {
	GetByIDAndEmail(ctx context.Context, id, email string) (*bookings.Booking, error)
	UpdateStatus(ctx context.Context, id string, status bookings.Status) error
	UpdateStatusUnlessPaid(ctx context.Context, id string, status bookings.Status) (bool, error)
}

// Recorder counts payment outcomes.
type Recorder interface {
	ObservePaymentIntent(result string)
	ObserveVerification(state string)
}

// CreateIntentRequest is the create-payment-intent payload.
type CreateIntentRequest struct {
	Amount    int64  `json:"amount"`
	BookingID string `json:"booking_id"`
	Email     string `json:"email"`
}

// Service runs the payment intent and verification flows.
type Service struct {
	bookings BookingStore
	provider IntentProvider
	metrics  Recorder
	logger   *logging.Logger
}

// NewService wires the payment flow. metrics may be nil.
func NewService(store BookingStore, provider IntentProvider, metrics Recorder, logger *logging.Logger) *Service {
	if store == nil || provider == nil {
		panic("payments: booking store and provider required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		bookings: store,
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateIntent checks the booking and email pair, then creates an intent and
// returns its client secret. The provider is never called when the pair does
// not match.
func (s *Service) CreateIntent(ctx context.Context, req CreateIntentRequest) (string, error) {
	bookingID := strings.TrimSpace(req.BookingID)
	email := strings.TrimSpace(req.Email)
	if req.Amount <= 0 || bookingID == "" || email == "" {
		s.observeIntent("missing_fields")
		return "", ErrMissingFields
	}
	if req.Amount > maxAmount {
		s.observeIntent("invalid_amount")
		return "", ErrInvalidAmount
	}

	booking, err := s.bookings.GetByIDAndEmail(ctx, bookingID, email)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			s.logger.Warn("payment intent rejected: booking and email mismatch", "booking_id", bookingID)
			s.observeIntent("invalid_booking")
			return "", ErrInvalidBooking
		}
		s.observeIntent("error")
		return "", fmt.Errorf("payments: booking lookup: %w", err)
	}

	intent, err := s.provider.CreateIntent(ctx, IntentRequest{
		Amount:       req.Amount,
		Currency:     Currency,
		BookingID:    booking.ID,
		ReceiptEmail: booking.Email,
	})
	if err != nil {
		s.observeIntent("error")
		return "", err
	}

	s.observeIntent("created")
	s.logger.Info("payment intent created",
		"booking_id", booking.ID,
		"payment_intent_id", intent.ID,
		"amount", req.Amount,
	)
	return intent.ClientSecret, nil
}

// Verify retrieves an intent and writes the outcome back to its booking.
func (s *Service) Verify(ctx context.Context, intentID string) (*Intent, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, ErrMissingIntentID
	}
	intent, err := s.provider.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	s.recordOutcome(ctx, intent)
	return intent, nil
}

// Evaluate runs the verification state machine once for intentID.
func (s *Service) Evaluate(ctx context.Context, intentID string) Verification {
	intent, err := s.Verify(ctx, intentID)
	v := Verification{Intent: intent, Err: err}
	if err != nil {
		v.State = StateError
	} else {
		v.State = StateForStatus(intent.Status)
	}
	if s.metrics != nil {
		s.metrics.ObserveVerification(string(v.State))
	}
	return v
}

func (s *Service) recordOutcome(ctx context.Context, intent *Intent) {
	if intent == nil || intent.BookingID == "" {
		return
	}
	var (
		status  bookings.Status
		updated = true
		err     error
	)
	switch {
	case StateForStatus(intent.Status) == StateSuccess:
		status = bookings.StatusPaid
		err = s.bookings.UpdateStatus(ctx, intent.BookingID, status)
	case terminalFailure(intent.Status):
		// A booking can have several intents; an abandoned one must not undo a payment.
		status = bookings.StatusFailed
		updated, err = s.bookings.UpdateStatusUnlessPaid(ctx, intent.BookingID, status)
	default:
		return
	}
	if err != nil {
		s.logger.Error("failed to record payment outcome",
			"error", err,
			"booking_id", intent.BookingID,
			"payment_intent_id", intent.ID,
			"status", status,
		)
		return
	}
	if !updated {
		s.logger.Info("booking already paid, outcome ignored",
			"booking_id", intent.BookingID,
			"payment_intent_id", intent.ID,
			"intent_status", intent.Status,
		)
		return
	}
	s.logger.Info("payment outcome recorded", "booking_id", intent.BookingID, "status", status)
}

func (s *Service) observeIntent(result string) {
	if s.metrics != nil {
		s.metrics.ObservePaymentIntent(result)
	}
}
