package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/cache"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/repository"
)

type BookingSvc struct {
	repo *repository.BookingRepo
	sink NotificationSink
	now  func() time.Time
}

func NewBookingSvc(repo *repository.BookingRepo, sink NotificationSink) *BookingSvc {
	return &BookingSvc{repo: repo, sink: sink, now: time.Now}
}

// normalizeRange truncates both bounds to UTC midnight and checks the
// check-out-after-check-in precondition. Every caller goes through here, so
// the availability query never sees a degenerate range.
func normalizeRange(checkIn, checkOut time.Time) (time.Time, time.Time, error) {
	ci := truncateToDay(checkIn)
	co := truncateToDay(checkOut)
	if !co.After(ci) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return ci, co, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *BookingSvc) Create(ctx context.Context, userID, roomID string, checkIn, checkOut time.Time) (*domain.Booking, error) {
	ci, co, err := normalizeRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		RoomID:   roomID,
		UserID:   userID,
		CheckIn:  ci,
		CheckOut: co,
		Status:   domain.BookingPending,
	}
	// Priced at creation time; later rate changes do not reprice the stay.
	b.TotalPrice = float64(b.Nights()) * room.NightlyRate

	if err := s.repo.CreateWithNoOverlap(ctx, b); err != nil {
		return nil, err
	}

	if s.sink != nil {
		s.sink.PublishDomainEvent(domain.Event{Key: domain.RKBookingCreated, Payload: domain.BookingCreated{
			BookingID: b.ID, UserID: b.UserID, RoomID: b.RoomID,
			CheckIn: b.CheckIn.Unix(), CheckOut: b.CheckOut.Unix(), Total: b.TotalPrice,
		}})
		s.sink.InvalidateCachePrefix(cache.PrefixRoomAvailability(b.RoomID))
		s.sink.InvalidateCachePrefix(cache.PrefixUserBookings(b.UserID))
	}
	return b, nil
}

// Reschedule moves a booking to new dates and reprices it for the room's
// current rate. The overlap check excludes the booking itself.
func (s *BookingSvc) Reschedule(ctx context.Context, id string, checkIn, checkOut time.Time) (*domain.Booking, error) {
	ci, co, err := normalizeRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.RoomByID(ctx, current.RoomID)
	if err != nil {
		return nil, err
	}

	nights := int(co.Sub(ci).Hours() / 24)
	price := float64(nights) * room.NightlyRate

	b, err := s.repo.Reschedule(ctx, id, ci, co, price)
	if err != nil {
		return nil, err
	}
	s.invalidate(b)
	return b, nil
}

// ChangeStatus applies one booking transition with its precondition:
// confirming re-checks availability, completing needs the stay to have
// started, a no-show needs it to be over.
func (s *BookingSvc) ChangeStatus(ctx context.Context, id string, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(to) {
		return nil, &domain.InvalidTransitionError{
			Entity: "booking", ID: b.ID, From: string(b.Status), To: string(to),
		}
	}

	switch to {
	case domain.BookingConfirmed:
		free, err := s.repo.IsAvailable(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.ID)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, domain.ErrRoomUnavailable
		}
	case domain.BookingCompleted:
		if s.now().UTC().Before(b.CheckIn) {
			return nil, errors.New("stay has not started yet")
		}
	case domain.BookingNoShow:
		if s.now().UTC().Before(b.CheckOut) {
			return nil, errors.New("stay has not ended yet")
		}
	}

	b, err = s.repo.UpdateStatus(ctx, id, to, reason)
	if err != nil {
		return nil, err
	}

	if s.sink != nil {
		switch to {
		case domain.BookingConfirmed:
			s.sink.PublishDomainEvent(domain.Event{Key: domain.RKBookingConfirmed, Payload: domain.BookingSimple{BookingID: b.ID}})
		case domain.BookingCancelled:
			s.sink.PublishDomainEvent(domain.Event{Key: domain.RKBookingCancelled, Payload: domain.BookingSimple{BookingID: b.ID, Reason: b.CancelReason}})
		}
	}
	s.invalidate(b)
	return b, nil
}

func (s *BookingSvc) Cancel(ctx context.Context, id, reason string) (*domain.Booking, error) {
	return s.ChangeStatus(ctx, id, domain.BookingCancelled, reason)
}

func (s *BookingSvc) Delete(ctx context.Context, id string, force bool) error {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, force); err != nil {
		return err
	}
	s.invalidate(b)
	return nil
}

func (s *BookingSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.ByID(ctx, id)
}

func (s *BookingSvc) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	ci, co, err := normalizeRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return s.repo.IsAvailable(ctx, roomID, ci, co, "")
}

func (s *BookingSvc) invalidate(b *domain.Booking) {
	if s.sink == nil {
		return
	}
	s.sink.InvalidateCachePrefix(cache.PrefixBooking(b.ID))
	s.sink.InvalidateCachePrefix(cache.PrefixRoomAvailability(b.RoomID))
	s.sink.InvalidateCachePrefix(cache.PrefixUserBookings(b.UserID))
}
