package payments

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

var verifyPageTemplate = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html lang="en-AU">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.Title}}</title>
</head>
<body>
<main class="payment-verify payment-verify--{{.State}}">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{- if .Amount}}
<p class="amount">{{.Amount}}</p>
{{- end}}
{{- if .RetryURL}}
<p><a href="{{.RetryURL}}">Try again</a></p>
{{- end}}
<p><a href="{{.HomeURL}}">Return to home</a></p>
</main>
</body>
</html>
`))

type verifyPageData struct {
	State    VerificationState
	Title    string
	Message  string
	Amount   string
	RetryURL string
	HomeURL  string
}

// PageHandler renders the page customers land on after checkout.
type PageHandler struct {
	service *Service
	siteURL string
	logger  *logging.Logger
}

func NewPageHandler(service *Service, siteURL string, logger *logging.Logger) *PageHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PageHandler{service: service, siteURL: siteURL, logger: logger}
}

// Verify handles GET /payment/verify?payment_intent=pi_...
func (h *PageHandler) Verify(w http.ResponseWriter, r *http.Request) {
	intentID := r.URL.Query().Get("payment_intent")
	result := h.service.Evaluate(r.Context(), intentID)
	if result.Err != nil {
		h.logger.Warn("payment verification failed", "error", result.Err, "payment_intent_id", intentID)
	}

	data := verifyPageData{State: result.State, HomeURL: h.siteURL + "/"}
	switch result.State {
	case StateSuccess:
		data.Title = "Payment successful"
		data.Message = "Thank you. Your payment has been received and a receipt is on its way to your inbox."
		data.Amount = formatAmount(result.Intent.Amount, result.Intent.Currency)
	case StateProcessing:
		data.Title = "Payment processing"
		data.Message = "Your payment is being processed. We will email you once it is confirmed."
	default:
		data.Title = "Payment not completed"
		data.Message = "We could not confirm your payment. No further charge has been made."
		data.RetryURL = h.retryURL(result.Intent)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := verifyPageTemplate.Execute(w, data); err != nil {
		h.logger.Error("render verify page failed", "error", err)
	}
}

func (h *PageHandler) retryURL(intent *Intent) string {
	if intent == nil || intent.BookingID == "" {
		return h.siteURL + "/payment"
	}
	return PaymentLink(h.siteURL, intent.BookingID)
}

// PaymentLink is the customer-facing payment page for a booking.
func PaymentLink(siteURL, bookingID string) string {
	return siteURL + "/payment?booking_id=" + url.QueryEscape(bookingID)
}
