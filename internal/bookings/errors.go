package bookings

import "errors"

var (
	// ErrMissingFields is returned when name, email, phone or address is absent
	ErrMissingFields = errors.New("bookings: missing required fields")

	// ErrInvalidPhone is returned when the phone is not an Australian number
	ErrInvalidPhone = errors.New("bookings: invalid phone number")

	// ErrBookingNotFound is returned when a booking is not found
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrInvalidStatus is returned for statuses outside the booking lifecycle
	ErrInvalidStatus = errors.New("bookings: invalid status")

	// ErrCommitAfterSend marks a status update whose side effect already ran
	// but whose transaction failed to commit.
	ErrCommitAfterSend = errors.New("bookings: commit failed after side effect")
)
