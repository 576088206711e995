package service

import (
	"errors"
	"testing"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
)

func paymentFixture() *domain.Payment {
	return &domain.Payment{
		ID:        "pay_1",
		BookingID: "bk_1",
		Amount:    300.00,
		Currency:  "usd",
		Status:    domain.PaymentPending,
	}
}

func TestCheckEventConsistency_AmountWithinTolerance(t *testing.T) {
	p := paymentFixture()
	ev := &gateway.Event{Kind: gateway.EventPaymentSucceeded, AmountMinor: 30001, Currency: "usd"}
	if err := checkEventConsistency(p, ev); err != nil {
		t.Fatalf("300.01 vs 300.00 should pass the 0.01 tolerance: %v", err)
	}
}

func TestCheckEventConsistency_AmountMismatch(t *testing.T) {
	p := paymentFixture()
	ev := &gateway.Event{Kind: gateway.EventPaymentSucceeded, AmountMinor: 30002, Currency: "usd"}
	err := checkEventConsistency(p, ev)
	var ce *domain.ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if ce.Field != "amount" {
		t.Fatalf("expected amount mismatch, got field %q", ce.Field)
	}
}

func TestCheckEventConsistency_CurrencyCaseInsensitive(t *testing.T) {
	p := paymentFixture()
	ev := &gateway.Event{Kind: gateway.EventPaymentSucceeded, AmountMinor: 30000, Currency: "USD"}
	if err := checkEventConsistency(p, ev); err != nil {
		t.Fatalf("currency comparison must ignore case: %v", err)
	}
}

func TestCheckEventConsistency_CurrencyDefaultsWhenUnset(t *testing.T) {
	p := paymentFixture()
	p.Currency = ""
	ev := &gateway.Event{Kind: gateway.EventPaymentSucceeded, AmountMinor: 30000, Currency: "usd"}
	if err := checkEventConsistency(p, ev); err != nil {
		t.Fatalf("unset stored currency should default to usd: %v", err)
	}
}

func TestCheckEventConsistency_CurrencyMismatch(t *testing.T) {
	p := paymentFixture()
	ev := &gateway.Event{Kind: gateway.EventPaymentSucceeded, AmountMinor: 30000, Currency: "eur"}
	var ce *domain.ConsistencyError
	if err := checkEventConsistency(p, ev); !errors.As(err, &ce) || ce.Field != "currency" {
		t.Fatalf("expected currency ConsistencyError, got %v", err)
	}
}

func TestCheckEventConsistency_Refund(t *testing.T) {
	cases := []struct {
		name      string
		refunded  int64
		charge    int64
		wantField string
	}{
		{"full refund ok", 30000, 30000, ""},
		{"partial refund ok", 10000, 30000, ""},
		{"zero refund", 0, 30000, "refund_amount"},
		{"refund exceeds payment", 30050, 30000, "refund_amount"},
		{"charge drifted from stored amount", 10000, 29000, "amount"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := paymentFixture()
			ev := &gateway.Event{
				Kind:          gateway.EventChargeRefunded,
				Currency:      "usd",
				RefundedMinor: c.refunded,
				ChargeMinor:   c.charge,
			}
			err := checkEventConsistency(p, ev)
			if c.wantField == "" {
				if err != nil {
					t.Fatalf("expected pass, got %v", err)
				}
				return
			}
			var ce *domain.ConsistencyError
			if !errors.As(err, &ce) || ce.Field != c.wantField {
				t.Fatalf("expected %s ConsistencyError, got %v", c.wantField, err)
			}
		})
	}
}
