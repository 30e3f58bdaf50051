package bookings

import (
	"context"
	"errors"

	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

// EnquiryNotifier is told about every accepted booking.
type EnquiryNotifier interface {
	BookingReceived(ctx context.Context, booking *Booking) error
}

// SubmissionRecorder counts booking submissions by outcome.
type SubmissionRecorder interface {
	ObserveBookingSubmission(result string)
}

// Service accepts booking form submissions.
type Service struct {
	repo     Repository
	notifier EnquiryNotifier
	metrics  SubmissionRecorder
	logger   *logging.Logger
}

// NewService wires the submission flow. notifier and metrics may be nil.
func NewService(repo Repository, notifier EnquiryNotifier, metrics SubmissionRecorder, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Submit validates and persists a booking. The business notification is
// best effort and never fails the submission.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Booking, error) {
	booking, err := s.repo.Create(ctx, req)
	if err != nil {
		s.observe(submissionResult(err))
		return nil, err
	}
	s.observe("created")

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"services", len(booking.Services),
	)

	if s.notifier != nil {
		if err := s.notifier.BookingReceived(ctx, booking); err != nil {
			s.logger.Warn("booking notification failed", "booking_id", booking.ID, "error", err)
		}
	}
	return booking, nil
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveBookingSubmission(result)
	}
}

func submissionResult(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, ErrInvalidPhone):
		return "invalid_phone"
	default:
		return "error"
	}
}
