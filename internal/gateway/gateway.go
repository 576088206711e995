// Package gateway is the payment-gateway boundary. The reconciliation code
// only sees the types here, never the provider SDK.
package gateway

import (
	"context"
	"errors"
)

// ErrEventIgnored marks a well-signed event of a kind this service does not
// reconcile. The webhook acknowledges it without touching local state.
var ErrEventIgnored = errors.New("event_ignored")

type EventKind string

const (
	EventPaymentSucceeded EventKind = "payment_succeeded"
	EventPaymentFailed    EventKind = "payment_failed"
	EventPaymentCanceled  EventKind = "payment_canceled"
	EventChargeRefunded   EventKind = "charge_refunded"
)

// Event is a verified, typed inbound gateway notification. Amounts are in
// the smallest currency unit (cents for usd).
type Event struct {
	ID          string
	Kind        EventKind
	IntentID    string
	AmountMinor int64
	Currency    string

	// Refund events only.
	ChargeMinor   int64
	RefundedMinor int64

	FailureMessage string
}

// Intent is the gateway-side authorization record for a payment.
type Intent struct {
	ID           string
	ClientSecret string
}

type Gateway interface {
	// CreateIntent registers an intent for amountMinor. The idempotency key
	// is derived from the booking id, so retried calls reuse one intent.
	CreateIntent(ctx context.Context, amountMinor int64, currency, description, idempotencyKey string) (*Intent, error)
	// VerifyEventSignature authenticates a raw webhook payload and returns
	// the typed event, or ErrEventIgnored for kinds outside reconciliation.
	VerifyEventSignature(payload []byte, sigHeader string) (*Event, error)
}
