package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/repository"
)

type PaymentSvc struct {
	payments *repository.PaymentRepo
	bookings *repository.BookingRepo
	gw       gateway.Gateway
}

func NewPaymentSvc(payments *repository.PaymentRepo, bookings *repository.BookingRepo, gw gateway.Gateway) *PaymentSvc {
	return &PaymentSvc{payments: payments, bookings: bookings, gw: gw}
}

// intentIdempotencyKey is derived from the booking id plus a version tag, so
// a retried creation request reuses the gateway-side intent instead of
// opening a second one.
func intentIdempotencyKey(bookingID string) string {
	return fmt.Sprintf("booking:%s:v1", bookingID)
}

func unitToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateIntent lazily creates the local payment row for a booking and
// registers (or re-fetches, via the idempotency key) the gateway intent.
// The returned client secret goes back to the caller's payment form.
func (s *PaymentSvc) CreateIntent(ctx context.Context, bookingID string) (*domain.Payment, *gateway.Intent, error) {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, nil, fmt.Errorf("booking %s is %s, only pending bookings can be paid", b.ID, b.Status)
	}

	p, err := s.payments.ByBookingID(ctx, bookingID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = &domain.Payment{
			BookingID: bookingID,
			Amount:    b.TotalPrice,
			Currency:  defaultCurrency,
			Status:    domain.PaymentPending,
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	}

	// The gateway call happens outside any transaction or lock; the same
	// idempotency key yields the same intent on retry.
	intent, err := s.gw.CreateIntent(ctx,
		unitToMinor(p.Amount),
		p.Currency,
		fmt.Sprintf("booking %s, room %s", b.ID, b.RoomID),
		intentIdempotencyKey(bookingID),
	)
	if err != nil {
		return nil, nil, err
	}

	if p.ProviderRef != intent.ID {
		p.ProviderRef = intent.ID
		if err := s.payments.Save(ctx, p); err != nil {
			return nil, nil, err
		}
	}
	return p, intent, nil
}

func (s *PaymentSvc) ByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return s.payments.ByBookingID(ctx, bookingID)
}
