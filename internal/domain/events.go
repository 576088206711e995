package domain

import (
	"encoding/json"
	"fmt"
)

// Routing keys on the booking topic exchange.
const (
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"

	RKPaymentPaid     = "payment.paid"
	RKPaymentFailed   = "payment.failed"
	RKPaymentRefunded = "payment.refunded"
)

// Event is a fire-and-forget domain event handed to the notification sink
// after a commit. Key selects the routing key; Payload is the JSON body.
type Event struct {
	Key     string
	Payload any
}

type BookingCreated struct {
	BookingID string  `json:"booking_id"`
	UserID    string  `json:"user_id"`
	RoomID    string  `json:"room_id"`
	CheckIn   int64   `json:"check_in"` // unix seconds
	CheckOut  int64   `json:"check_out"`
	Total     float64 `json:"total"`
}

type BookingSimple struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason,omitempty"`
}

type PaymentPaid struct {
	BookingID string  `json:"booking_id"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

type PaymentFailedEvent struct {
	BookingID string `json:"booking_id"`
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason,omitempty"`
}

type PaymentRefundedEvent struct {
	BookingID string  `json:"booking_id"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
