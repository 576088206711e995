package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
)

const (
	// amountTolerance absorbs rounding drift between the gateway's minor
	// units and the stored decimal amount. Anything past it is treated as a
	// corruption or fraud signal, never silently applied.
	amountTolerance = 0.01

	defaultCurrency = "usd"
)

// minorToUnit converts gateway minor units (cents) to the stored
// denomination. Two-decimal currencies only, which is all this system sells in.
func minorToUnit(minor int64) float64 {
	return float64(minor) / 100
}

func amountsMatch(a, b float64) bool {
	return math.Abs(a-b) <= amountTolerance
}

func normCurrency(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return defaultCurrency
	}
	return c
}

// checkEventConsistency cross-checks the gateway's figures against the local
// payment row before any transaction is opened. A failed check aborts the
// event with a ConsistencyError.
func checkEventConsistency(p *domain.Payment, ev *gateway.Event) error {
	if got, want := normCurrency(ev.Currency), normCurrency(p.Currency); got != want {
		return &domain.ConsistencyError{
			PaymentID: p.ID, Field: "currency", Want: want, Got: got,
		}
	}

	if ev.Kind == gateway.EventChargeRefunded {
		refunded := minorToUnit(ev.RefundedMinor)
		if refunded <= 0 {
			return &domain.ConsistencyError{
				PaymentID: p.ID, Field: "refund_amount",
				Want: "> 0", Got: fmt.Sprintf("%.2f", refunded),
			}
		}
		if refunded > p.Amount+amountTolerance {
			return &domain.ConsistencyError{
				PaymentID: p.ID, Field: "refund_amount",
				Want: fmt.Sprintf("<= %.2f", p.Amount), Got: fmt.Sprintf("%.2f", refunded),
			}
		}
		if charge := minorToUnit(ev.ChargeMinor); !amountsMatch(charge, p.Amount) {
			return &domain.ConsistencyError{
				PaymentID: p.ID, Field: "amount",
				Want: fmt.Sprintf("%.2f", p.Amount), Got: fmt.Sprintf("%.2f", charge),
			}
		}
		return nil
	}

	if got := minorToUnit(ev.AmountMinor); !amountsMatch(got, p.Amount) {
		return &domain.ConsistencyError{
			PaymentID: p.ID, Field: "amount",
			Want: fmt.Sprintf("%.2f", p.Amount), Got: fmt.Sprintf("%.2f", got),
		}
	}
	return nil
}
