package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
	"github.com/wolfman30/trades-booking-api/internal/payments"
	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

var notifyTracer = otel.Tracer("trades.internal.notify")

// BookingStore is the booking access the notification flows need.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (*bookings.Booking, error)
	UpdateStatusWith(ctx context.Context, id string, status bookings.Status, effect bookings.SideEffect) error
}

// Recorder counts emails by kind and outcome.
type Recorder interface {
	ObserveEmail(kind, result string)
}

// ErrMissingBookingID is returned when no booking id was supplied.
var ErrMissingBookingID = errors.New("notify: missing booking id")

// Service sends customer and business emails about bookings.
type Service struct {
	email       EmailSender
	bookings    BookingStore
	siteURL     string
	notifyEmail string
	metrics     Recorder
	logger      *logging.Logger
}

// Config holds the addresses the Service needs.
type Config struct {
	SiteURL     string
	NotifyEmail string
}

// NewService creates a notification service.
func NewService(email EmailSender, store BookingStore, cfg Config, metrics Recorder, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:       email,
		bookings:    store,
		siteURL:     strings.TrimRight(cfg.SiteURL, "/"),
		notifyEmail: strings.TrimSpace(cfg.NotifyEmail),
		metrics:     metrics,
		logger:      logger,
	}
}

// SendPaymentRequest emails the customer their payment link and marks the
// booking awaiting_payment. Every call sends again and sets the status again.
func (s *Service) SendPaymentRequest(ctx context.Context, bookingID string) error {
	ctx, span := notifyTracer.Start(ctx, "notify.payment_request")
	defer span.End()

	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return ErrMissingBookingID
	}
	span.SetAttributes(attribute.String("booking.id", bookingID))

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	msg, err := PaymentRequestEmail(booking, payments.PaymentLink(s.siteURL, booking.ID))
	if err != nil {
		return err
	}

	err = s.bookings.UpdateStatusWith(ctx, booking.ID, bookings.StatusAwaitingPayment, func(ctx context.Context) error {
		return s.email.Send(ctx, msg)
	})
	switch {
	case err == nil:
	case errors.Is(err, bookings.ErrCommitAfterSend):
		// The customer has the email; only the status write was lost.
		s.logger.Error("payment email sent but status not saved", "error", err, "booking_id", booking.ID)
		s.observe("payment_request", "status_lost")
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment request failed")
		s.observe("payment_request", "error")
		return fmt.Errorf("notify: payment request: %w", err)
	}

	s.observe("payment_request", "sent")
	s.logger.Info("payment email sent", "booking_id", booking.ID)
	return nil
}

// BookingReceived emails the business inbox about a new booking. It is a
// no-op when no inbox is configured.
func (s *Service) BookingReceived(ctx context.Context, booking *bookings.Booking) error {
	if s.notifyEmail == "" || s.email == nil {
		return nil
	}
	msg, err := BookingReceivedEmail(booking, s.notifyEmail)
	if err != nil {
		return err
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.observe("booking_received", "error")
		return fmt.Errorf("notify: booking received: %w", err)
	}
	s.observe("booking_received", "sent")
	return nil
}

func (s *Service) observe(kind, result string) {
	if s.metrics != nil {
		s.metrics.ObserveEmail(kind, result)
	}
}

var _ bookings.EnquiryNotifier = (*Service)(nil)
