package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

func newTestHandler(repo Repository) *Handler {
	logger := logging.Default()
	return NewHandler(NewService(repo, nil, nil, logger), logger)
}

func postBooking(t *testing.T, h *Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func TestSubmit_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	h := newTestHandler(repo)

	w := postBooking(t, h, map[string]any{
		"name":          "Jane Citizen",
		"email":         "jane@example.com.au",
		"phone":         "0412 345 678",
		"address":       "1 George St, Sydney NSW 2000",
		"services":      []string{"Gas fitting"},
		"preferredTime": "Afternoon",
		"message":       "Gas smell near meter",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp SubmitResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Message == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("expected one stored booking, got %d", len(repo.bookings))
	}
}

func TestSubmit_MissingAddress(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository())

	w := postBooking(t, h, map[string]any{
		"name":  "Jane Citizen",
		"email": "jane@example.com.au",
		"phone": "0412 345 678",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "Missing required fields") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSubmit_InvalidPhone(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository())

	w := postBooking(t, h, map[string]any{
		"name":    "Jane Citizen",
		"email":   "jane@example.com.au",
		"phone":   "0912345678",
		"address": "1 George St",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid phone number") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository())
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader("{"))
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

type failingRepo struct{ Repository }

func (failingRepo) Create(context.Context, *SubmitRequest) (*Booking, error) {
	return nil, errors.New("db unavailable")
}

func TestSubmit_StoreFailure(t *testing.T) {
	h := newTestHandler(failingRepo{})

	w := postBooking(t, h, validRequest())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if strings.Contains(w.Body.String(), "db unavailable") {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}
