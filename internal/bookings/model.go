package bookings

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending         Status = "pending"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusFailed          Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusPaid, StatusFailed:
		return true
	}
	return false
}

// Booking is a customer's service request.
type Booking struct {
	ID            string    `json:"booking_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Services      []string  `json:"services"`
	PreferredTime string    `json:"preferred_time"`
	Message       string    `json:"message"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubmitRequest is the booking form payload.
type SubmitRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	Services      []string `json:"services"`
	PreferredTime string   `json:"preferredTime"`
	Message       string   `json:"message"`
}

// Normalize trims text fields and dedupes services in first-seen order.
func (r *SubmitRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.PreferredTime = strings.TrimSpace(r.PreferredTime)
	r.Message = strings.TrimSpace(r.Message)
	r.Services = normalizeServices(r.Services)
}

// Validate checks required fields and the phone format.
func (r *SubmitRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Phone) == "" ||
		strings.TrimSpace(r.Address) == "" {
		return ErrMissingFields
	}
	if !ValidAUPhone(r.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

func normalizeServices(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SameEmail compares addresses ignoring case and surrounding whitespace.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
