package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, description, idempotencyKey string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountMinor),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(idempotencyKey)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) VerifyEventSignature(payload []byte, sigHeader string) (*Event, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	switch ev.Type {
	case "payment_intent.succeeded":
		return intentEvent(&ev, EventPaymentSucceeded)
	case "payment_intent.payment_failed":
		return intentEvent(&ev, EventPaymentFailed)
	case "payment_intent.canceled":
		return intentEvent(&ev, EventPaymentCanceled)
	case "charge.refunded":
		var ch stripe.Charge
		if err := json.Unmarshal(ev.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("decode charge from %s: %w", ev.ID, err)
		}
		out := &Event{
			ID:            ev.ID,
			Kind:          EventChargeRefunded,
			Currency:      string(ch.Currency),
			ChargeMinor:   ch.Amount,
			RefundedMinor: ch.AmountRefunded,
		}
		if ch.PaymentIntent != nil {
			out.IntentID = ch.PaymentIntent.ID
		}
		return out, nil
	default:
		return nil, ErrEventIgnored
	}
}

func intentEvent(ev *stripe.Event, kind EventKind) (*Event, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent from %s: %w", ev.ID, err)
	}
	out := &Event{
		ID:          ev.ID,
		Kind:        kind,
		IntentID:    pi.ID,
		AmountMinor: pi.Amount,
		Currency:    string(pi.Currency),
	}
	if pi.LastPaymentError != nil {
		out.FailureMessage = pi.LastPaymentError.Msg
	}
	return out, nil
}
