package notify

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
)

func callSendPaymentEmail(h *PaymentEmailHandler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/send-payment-email"+query, nil)
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	return rec
}

func TestPaymentEmailHandler(t *testing.T) {
	repo := bookings.NewInMemoryRepository()
	booking := seedBooking(t, repo)
	svc := NewService(&mockEmailSender{}, repo, Config{SiteURL: "https://example.com.au"}, nil, nil)
	h := NewPaymentEmailHandler(svc, nil)

	rec := callSendPaymentEmail(h, "?booking_id="+booking.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Payment email sent successfully") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	if rec := callSendPaymentEmail(h, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec := callSendPaymentEmail(h, "?booking_id=unknown"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPaymentEmailHandler_SendFailure(t *testing.T) {
	repo := bookings.NewInMemoryRepository()
	booking := seedBooking(t, repo)
	svc := NewService(&mockEmailSender{err: errors.New("down")}, repo, Config{}, nil, nil)
	h := NewPaymentEmailHandler(svc, nil)

	rec := callSendPaymentEmail(h, "?booking_id="+booking.ID)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to send payment email") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
