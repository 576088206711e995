package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

var paymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentPending: {
		PaymentCompleted: true,
		PaymentFailed:    true,
		PaymentCancelled: true,
	},
	PaymentCompleted: {
		PaymentRefunded: true,
	},
}

// CanTransitionTo validates a payment status change. A same-status
// transition is always a valid no-op: the gateway delivers at least once,
// so a duplicate confirmation must not look like an error here.
func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	if s == to {
		return true
	}
	return paymentTransitions[s][to]
}

// IsTerminal reports whether the payment outcome is settled. Refunds are
// the exception handled by the coordinator: COMPLETED is not terminal
// because a refund can still move it.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentFailed, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

// Payment is the local side of a gateway payment intent. At most one per
// booking. Rows are never deleted; a cancelled booking keeps its payment
// as the audit trail.
type Payment struct {
	ID            string        `gorm:"primaryKey"`
	BookingID     string        `gorm:"uniqueIndex;not null"`
	Amount        float64       `gorm:"type:decimal(10,2);not null"`
	Currency      string        `gorm:"size:10;default:'usd'"`
	Status        PaymentStatus `gorm:"type:varchar(20);index;not null"`
	ProviderRef   string        `gorm:"uniqueIndex"` // gateway intent id
	LastEventID   string        `gorm:"index"`       // idempotency marker
	FailureReason string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
