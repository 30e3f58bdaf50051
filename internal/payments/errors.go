package payments

import "errors"

var (
	// ErrMissingFields is returned when amount, booking_id or email is absent
	ErrMissingFields = errors.New("payments: missing required fields")

	// ErrInvalidAmount is returned for amounts Stripe would reject
	ErrInvalidAmount = errors.New("payments: invalid amount")

	// ErrInvalidBooking is returned when no booking matches the id and email pair
	ErrInvalidBooking = errors.New("payments: invalid booking or email")

	// ErrMissingIntentID is returned when verification has no intent id
	ErrMissingIntentID = errors.New("payments: missing payment intent id")
)
