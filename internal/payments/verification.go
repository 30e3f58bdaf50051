package payments

import "github.com/stripe/stripe-go/v82"

// VerificationState is the outcome shown to a customer returning from checkout.
type VerificationState string

const (
	StateProcessing VerificationState = "processing"
	StateSuccess    VerificationState = "success"
	StateError      VerificationState = "error"
)

// Verification is one evaluation of a payment intent.
type Verification struct {
	State  VerificationState
	Intent *Intent
	Err    error
}

// StateForStatus maps a PaymentIntent status onto the verification states.
// Only succeeded and processing are non-error outcomes.
func StateForStatus(status string) VerificationState {
	switch stripe.PaymentIntentStatus(status) {
	case stripe.PaymentIntentStatusSucceeded:
		return StateSuccess
	case stripe.PaymentIntentStatusProcessing:
		return StateProcessing
	default:
		return StateError
	}
}

// terminalFailure reports whether status means the payment attempt is over
// without funds being collected.
func terminalFailure(status string) bool {
	switch stripe.PaymentIntentStatus(status) {
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		return true
	}
	return false
}
