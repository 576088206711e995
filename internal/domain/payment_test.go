package domain

import "testing"

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentPending, PaymentCompleted, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPending, PaymentCancelled, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentCompleted, PaymentRefunded, true},
		{PaymentCompleted, PaymentFailed, false},
		{PaymentCompleted, PaymentCancelled, false},
		{PaymentFailed, PaymentCompleted, false},
		{PaymentRefunded, PaymentCompleted, false},
		{PaymentCancelled, PaymentCompleted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPaymentSameStatusIsNoOp(t *testing.T) {
	// at-least-once delivery: a repeated status is always accepted,
	// including out of terminal states
	for _, s := range []PaymentStatus{
		PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded, PaymentCancelled,
	} {
		if !s.CanTransitionTo(s) {
			t.Errorf("%s -> %s should be a valid no-op", s, s)
		}
	}
}

func TestPaymentTerminalStatuses(t *testing.T) {
	terminal := map[PaymentStatus]bool{
		PaymentPending:   false,
		PaymentCompleted: false, // refundable, so not settled
		PaymentFailed:    true,
		PaymentRefunded:  true,
		PaymentCancelled: true,
	}
	for s, want := range terminal {
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}
