package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomUnavailable means another live booking overlaps the requested range.
	ErrRoomUnavailable = errors.New("room_unavailable")
	// ErrInvalidDateRange means check-out is not after check-in.
	ErrInvalidDateRange = errors.New("invalid_date_range")
	// ErrBookingNotTerminal means a hard delete was requested without force
	// while the booking still has outgoing transitions.
	ErrBookingNotTerminal = errors.New("booking_not_terminal")
)

// InvalidTransitionError rejects a state change the transition table does
// not allow. Surfaced with full context so a stuck gateway event can be
// investigated rather than auto-corrected.
type InvalidTransitionError struct {
	Entity  string // "booking" or "payment"
	ID      string
	From    string
	To      string
	EventID string
}

func (e *InvalidTransitionError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("invalid %s transition %s -> %s (id=%s event=%s)",
			e.Entity, e.From, e.To, e.ID, e.EventID)
	}
	return fmt.Sprintf("invalid %s transition %s -> %s (id=%s)", e.Entity, e.From, e.To, e.ID)
}

// ConsistencyError rejects a gateway event whose figures disagree with the
// local payment row. Treated as a possible fraud or corruption signal: the
// event is refused before any transaction is opened.
type ConsistencyError struct {
	PaymentID string
	Field     string // "amount", "currency", "refund_amount"
	Want      string
	Got       string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("payment %s %s mismatch: want %s, got %s",
		e.PaymentID, e.Field, e.Want, e.Got)
}
