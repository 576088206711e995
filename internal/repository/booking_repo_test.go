package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Room{}, &domain.Booking{}, &domain.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func seedBooking(t *testing.T, db *gorm.DB, id string, checkIn, checkOut time.Time, status domain.BookingStatus) {
	t.Helper()
	b := &domain.Booking{
		ID: id, RoomID: "room_1", UserID: "user_1",
		CheckIn: checkIn, CheckOut: checkOut,
		TotalPrice: 100, Status: status,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestIsAvailable_HalfOpenIntervals(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	// existing stay [Jan 10, Jan 12)
	seedBooking(t, db, "bk_a", day(10), day(12), domain.BookingPending)

	// back-to-back [Jan 12, Jan 14) is not a conflict
	free, err := repo.IsAvailable(ctx, "room_1", day(12), day(14), "")
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if !free {
		t.Fatal("back-to-back stay reported as conflict")
	}

	// [Jan 11, Jan 13) overlaps
	free, err = repo.IsAvailable(ctx, "room_1", day(11), day(13), "")
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if free {
		t.Fatal("overlapping stay reported as free")
	}

	// and so does a fully containing range
	if free, _ = repo.IsAvailable(ctx, "room_1", day(9), day(15), ""); free {
		t.Fatal("containing range reported as free")
	}
}

func TestIsAvailable_IgnoresReleasedAndDeletedBookings(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	seedBooking(t, db, "bk_cancelled", day(10), day(12), domain.BookingCancelled)
	seedBooking(t, db, "bk_completed", day(10), day(12), domain.BookingCompleted)
	seedBooking(t, db, "bk_deleted", day(10), day(12), domain.BookingPending)
	if err := db.Delete(&domain.Booking{ID: "bk_deleted"}).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	free, err := repo.IsAvailable(ctx, "room_1", day(10), day(12), "")
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if !free {
		t.Fatal("cancelled/completed/soft-deleted bookings must not block")
	}
}

func TestIsAvailable_ExcludesOwnBooking(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	seedBooking(t, db, "bk_self", day(10), day(12), domain.BookingConfirmed)

	// moving its own dates: the booking never conflicts with itself
	free, err := repo.IsAvailable(ctx, "room_1", day(11), day(13), "bk_self")
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if !free {
		t.Fatal("booking conflicts with itself")
	}
}

func TestCreateWithNoOverlap(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	first := &domain.Booking{
		RoomID: "room_1", UserID: "user_1",
		CheckIn: day(10), CheckOut: day(12),
		TotalPrice: 200, Status: domain.BookingPending,
	}
	if err := repo.CreateWithNoOverlap(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.ID == "" {
		t.Fatal("id not assigned")
	}

	conflict := &domain.Booking{
		RoomID: "room_1", UserID: "user_2",
		CheckIn: day(11), CheckOut: day(13),
		TotalPrice: 200, Status: domain.BookingPending,
	}
	if err := repo.CreateWithNoOverlap(ctx, conflict); !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}

	var n int64
	db.Model(&domain.Booking{}).Count(&n)
	if n != 1 {
		t.Fatalf("conflicting insert persisted, %d rows", n)
	}
}

func TestReschedule(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	seedBooking(t, db, "bk_move", day(10), day(12), domain.BookingPending)
	seedBooking(t, db, "bk_other", day(20), day(22), domain.BookingConfirmed)

	// shifting within its own range is fine
	b, err := repo.Reschedule(ctx, "bk_move", day(11), day(14), 300)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !b.CheckIn.Equal(day(11)) || !b.CheckOut.Equal(day(14)) || b.TotalPrice != 300 {
		t.Fatalf("reschedule not applied: %+v", b)
	}

	// but not onto another live booking
	if _, err := repo.Reschedule(ctx, "bk_move", day(21), day(23), 200); !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}
}

func TestUpdateStatus_RejectsInvalidTransition(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	seedBooking(t, db, "bk_done", day(1), day(2), domain.BookingCompleted)

	_, err := repo.UpdateStatus(ctx, "bk_done", domain.BookingCancelled, "too late")
	var it *domain.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestUpdateStatus_RecordsCancelReason(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	seedBooking(t, db, "bk_c", day(1), day(2), domain.BookingPending)

	b, err := repo.UpdateStatus(ctx, "bk_c", domain.BookingCancelled, "guest request")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Status != domain.BookingCancelled || b.CancelReason != "guest request" {
		t.Fatalf("got %s / %q", b.Status, b.CancelReason)
	}
}

func TestDelete_NonTerminalNeedsForce(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookingRepo(db)
	ctx := context.Background()

	seedBooking(t, db, "bk_live", day(10), day(12), domain.BookingConfirmed)

	if err := repo.Delete(ctx, "bk_live", false); !errors.Is(err, domain.ErrBookingNotTerminal) {
		t.Fatalf("expected ErrBookingNotTerminal, got %v", err)
	}
	if err := repo.Delete(ctx, "bk_live", true); err != nil {
		t.Fatalf("forced delete: %v", err)
	}

	err := db.First(&domain.Booking{}, "id = ?", "bk_live").Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected soft-deleted row to be hidden, got %v", err)
	}
}
