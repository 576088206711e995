package domain

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// bookingTransitions is the full transition table. Anything absent is
// invalid, including same-status requests (unlike payments, a doubled
// booking transition is rejected, not treated as a no-op).
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending: {
		BookingConfirmed: true,
		BookingCancelled: true,
	},
	BookingConfirmed: {
		BookingCompleted: true,
		BookingCancelled: true,
		BookingNoShow:    true,
	},
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	return bookingTransitions[s][to]
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Room struct {
	ID          string  `gorm:"primaryKey"`
	HotelID     string  `gorm:"index"`
	Number      string  `gorm:"index"`
	NightlyRate float64 `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Booking holds a room for [CheckIn, CheckOut). CheckOut is exclusive so
// back-to-back stays on the same room never conflict.
type Booking struct {
	ID           string        `gorm:"primaryKey"`
	RoomID       string        `gorm:"index;not null"`
	UserID       string        `gorm:"index;not null"`
	CheckIn      time.Time     `gorm:"index;not null"`
	CheckOut     time.Time     `gorm:"index;not null"`
	TotalPrice   float64       `gorm:"type:decimal(10,2);not null"`
	Status       BookingStatus `gorm:"type:varchar(20);index;not null"`
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Nights returns the stay length in whole nights.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
