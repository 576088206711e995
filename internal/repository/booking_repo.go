package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
)

// blockingStatuses are the booking statuses that hold a room. Cancelled and
// completed stays release their dates.
var blockingStatuses = []domain.BookingStatus{
	domain.BookingPending,
	domain.BookingConfirmed,
	domain.BookingNoShow,
}

// lockForUpdate adds a row lock on dialects that support it. Sqlite (tests)
// has no FOR UPDATE; its single-writer model serializes there instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Room{}, &domain.Booking{})
}

// overlapQuery selects live bookings on the room whose [check_in, check_out)
// intersects [start, end). Half-open on both sides, so a stay ending the day
// another begins does not match.
func overlapQuery(tx *gorm.DB, roomID string, start, end time.Time, excludeID string) *gorm.DB {
	q := tx.Model(&domain.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, blockingStatuses).
		Where("check_in < ? AND check_out > ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

// IsAvailable reports whether the room is free for [start, end). Pass
// excludeID to ignore one booking, e.g. when moving its own dates.
func (r *BookingRepo) IsAvailable(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	var n int64
	err := overlapQuery(r.db.WithContext(ctx), roomID, start, end, excludeID).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// CreateWithNoOverlap inserts the booking inside one transaction that first
// locks any candidate overlapping rows, so two concurrent requests for the
// same dates cannot both observe the room as free and both insert.
func (r *BookingRepo) CreateWithNoOverlap(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Booking
		err := lockForUpdate(overlapQuery(tx, b.RoomID, b.CheckIn, b.CheckOut, "")).
			Take(&existing).Error
		if err == nil {
			return domain.ErrRoomUnavailable
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		return tx.Create(b).Error
	})
}

// Reschedule moves the booking to new dates under the same locked overlap
// check, ignoring the booking's own row, and stores the recomputed price.
func (r *BookingRepo) Reschedule(ctx context.Context, id string, start, end time.Time, price float64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		var existing domain.Booking
		err := lockForUpdate(overlapQuery(tx, b.RoomID, start, end, b.ID)).
			Take(&existing).Error
		if err == nil {
			return domain.ErrRoomUnavailable
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		b.CheckIn = start
		b.CheckOut = end
		b.TotalPrice = price
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) RoomByID(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *BookingRepo) CreateRoom(ctx context.Context, room *domain.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(room).Error
}

// UpdateStatus persists an already-validated transition. Reason lands in
// cancel_reason only when the target is CANCELLED.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(to) {
			return &domain.InvalidTransitionError{
				Entity: "booking", ID: b.ID,
				From: string(b.Status), To: string(to),
			}
		}
		b.Status = to
		if to == domain.BookingCancelled {
			b.CancelReason = reason
		}
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete soft-deletes a booking. A booking that can still move (non-terminal
// status) is kept unless the caller forces it.
func (r *BookingRepo) Delete(ctx context.Context, id string, force bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := lockForUpdate(tx).First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if !b.Status.IsTerminal() && !force {
			return domain.ErrBookingNotTerminal
		}
		return tx.Delete(&b).Error
	})
}
