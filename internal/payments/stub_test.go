package payments

import (
	"context"
	"sync"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
)

type stubProvider struct {
	mu          sync.Mutex
	createCalls []IntentRequest
	getCalls    []string
	intent      *Intent
	err         error
}

func (p *stubProvider) CreateIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls = append(p.createCalls, req)
	if p.err != nil {
		return nil, p.err
	}
	return &Intent{ID: "pi_123", ClientSecret: "pi_123_secret_abc", Amount: req.Amount, Currency: req.Currency, Status: "requires_payment_method", BookingID: req.BookingID}, nil
}

func (p *stubProvider) GetIntent(_ context.Context, id string) (*Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.getCalls = append(p.getCalls, id)
	if p.err != nil {
		return nil, p.err
	}
	return p.intent, nil
}

func seedBooking(repo *bookings.InMemoryRepository) *bookings.Booking {
	b, err := repo.Create(context.Background(), &bookings.SubmitRequest{
		Name:    "Jane Citizen",
		Email:   "jane@example.com.au",
		Phone:   "0412 345 678",
		Address: "1 George St, Sydney NSW 2000",
	})
	if err != nil {
		panic(err)
	}
	return b
}
