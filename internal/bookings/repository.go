package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SideEffect runs inside a status update. The new status is kept only if it
// returns nil.
type SideEffect func(ctx context.Context) error

// Repository defines the interface for booking storage
type Repository interface {
	Create(ctx context.Context, req *SubmitRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByIDAndEmail(ctx context.Context, id, email string) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateStatusUnlessPaid(ctx context.Context, id string, status Status) (bool, error)
	UpdateStatusWith(ctx context.Context, id string, status Status, effect SideEffect) error
}

// InMemoryRepository keeps bookings in process memory. Used in development
// and tests when no DATABASE_URL is configured.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
	now      func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request and stores a pending booking.
func (r *InMemoryRepository) Create(ctx context.Context, req *SubmitRequest) (*Booking, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.now()
	booking := &Booking{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Services:      req.Services,
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	r.mu.Lock()
	r.bookings[booking.ID] = booking
	r.mu.Unlock()

	return clone(booking), nil
}

// GetByID retrieves a booking by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return clone(booking), nil
}

// GetByIDAndEmail retrieves a booking only when the email matches.
func (r *InMemoryRepository) GetByIDAndEmail(ctx context.Context, id, email string) (*Booking, error) {
	booking, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !SameEmail(booking.Email, email) {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// UpdateStatus sets the booking status unconditionally.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	booking.Status = status
	booking.UpdatedAt = r.now()
	return nil
}

// UpdateStatusUnlessPaid sets the status unless the booking is already paid.
// It reports whether the status was written.
func (r *InMemoryRepository) UpdateStatusUnlessPaid(ctx context.Context, id string, status Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return false, ErrBookingNotFound
	}
	if booking.Status == StatusPaid {
		return false, nil
	}
	booking.Status = status
	booking.UpdatedAt = r.now()
	return true, nil
}

// UpdateStatusWith runs effect first and applies the status only on success.
func (r *InMemoryRepository) UpdateStatusWith(ctx context.Context, id string, status Status, effect SideEffect) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if effect != nil {
		if err := effect(ctx); err != nil {
			return err
		}
	}
	return r.UpdateStatus(ctx, id, status)
}

func clone(b *Booking) *Booking {
	cp := *b
	cp.Services = append([]string(nil), b.Services...)
	return &cp
}
