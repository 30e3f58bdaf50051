package payments

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

var stripeTracer = otel.Tracer("trades.internal.payments.stripe")

// Intent is the part of a Stripe PaymentIntent the site relies on.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
	BookingID    string
}

// IntentRequest describes a PaymentIntent to create.
type IntentRequest struct {
	Amount       int64
	Currency     string
	BookingID    string
	ReceiptEmail string
}

// IntentProvider creates and retrieves payment intents.
type IntentProvider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// StripeProvider talks to the Stripe PaymentIntents API.
type StripeProvider struct {
	client *client.API
	logger *logging.Logger
}

// NewStripeProvider creates a provider using secretKey. Calls are bounded by
// timeout in addition to the request context.
func NewStripeProvider(secretKey string, timeout time.Duration, logger *logging.Logger) *StripeProvider {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	backends := stripe.NewBackends(&http.Client{Timeout: timeout})
	return &StripeProvider{
		client: client.New(secretKey, backends),
		logger: logger,
	}
}

// CreateIntent creates a PaymentIntent with automatic payment methods.
func (p *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	ctx, span := stripeTracer.Start(ctx, "payments.stripe.create_intent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", req.BookingID),
		attribute.Int64("payment.amount", req.Amount),
		attribute.String("payment.currency", req.Currency),
	)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.AddMetadata("booking_id", req.BookingID)
	params.Context = ctx

	pi, err := p.client.PaymentIntents.New(params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create payment intent failed")
		p.logger.Error("stripe create payment intent failed", "error", err, "booking_id", req.BookingID)
		return nil, fmt.Errorf("payments: stripe create intent: %w", err)
	}

	span.SetAttributes(attribute.String("payment.intent_id", pi.ID))
	return intentFromStripe(pi), nil
}

// GetIntent retrieves a PaymentIntent by id.
func (p *StripeProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	ctx, span := stripeTracer.Start(ctx, "payments.stripe.get_intent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("payment.intent_id", id))

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.client.PaymentIntents.Get(id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get payment intent failed")
		p.logger.Error("stripe get payment intent failed", "error", err, "payment_intent_id", id)
		return nil, fmt.Errorf("payments: stripe get intent: %w", err)
	}

	span.SetAttributes(attribute.String("payment.status", string(pi.Status)))
	return intentFromStripe(pi), nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	if pi == nil {
		return nil
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		BookingID:    pi.Metadata["booking_id"],
	}
}

var _ IntentProvider = (*StripeProvider)(nil)
