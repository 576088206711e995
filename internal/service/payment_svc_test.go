package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/repository"
)

type intentCall struct {
	amountMinor    int64
	currency       string
	idempotencyKey string
}

type fakeGateway struct {
	calls  []intentCall
	intent gateway.Intent
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency, _, idempotencyKey string) (*gateway.Intent, error) {
	g.calls = append(g.calls, intentCall{amountMinor, currency, idempotencyKey})
	intent := g.intent
	return &intent, nil
}

func (g *fakeGateway) VerifyEventSignature([]byte, string) (*gateway.Event, error) {
	return nil, gateway.ErrEventIgnored
}

func newPaymentFixture(t *testing.T) (*gorm.DB, *PaymentSvc, *fakeGateway) {
	t.Helper()
	db := openTestDB(t)
	b := &domain.Booking{
		ID: "bk_1", RoomID: "room_1", UserID: "user_1",
		CheckIn:  time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		TotalPrice: 300.00, Status: domain.BookingPending,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	gw := &fakeGateway{intent: gateway.Intent{ID: "pi_abc", ClientSecret: "cs_123"}}
	svc := NewPaymentSvc(repository.NewPaymentRepo(db), repository.NewBookingRepo(db), gw)
	return db, svc, gw
}

func TestCreateIntent_LazilyCreatesPayment(t *testing.T) {
	_, svc, gw := newPaymentFixture(t)

	p, intent, err := svc.CreateIntent(context.Background(), "bk_1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if p.Amount != 300.00 || p.Currency != "usd" || p.Status != domain.PaymentPending {
		t.Fatalf("payment = %+v", p)
	}
	if p.ProviderRef != "pi_abc" {
		t.Fatalf("provider ref = %q", p.ProviderRef)
	}
	if intent.ClientSecret != "cs_123" {
		t.Fatalf("client secret = %q", intent.ClientSecret)
	}

	call := gw.calls[0]
	if call.amountMinor != 30000 {
		t.Fatalf("gateway amount = %d, want 30000", call.amountMinor)
	}
	if call.idempotencyKey != "booking:bk_1:v1" {
		t.Fatalf("idempotency key = %q", call.idempotencyKey)
	}
}

func TestCreateIntent_RetryReusesPaymentAndKey(t *testing.T) {
	_, svc, gw := newPaymentFixture(t)
	ctx := context.Background()

	first, _, err := svc.CreateIntent(ctx, "bk_1")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, _, err := svc.CreateIntent(ctx, "bk_1")
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("retry created a second payment: %s vs %s", first.ID, second.ID)
	}
	if len(gw.calls) != 2 || gw.calls[0].idempotencyKey != gw.calls[1].idempotencyKey {
		t.Fatalf("retry must reuse the idempotency key: %+v", gw.calls)
	}
}

func TestCreateIntent_RejectsNonPendingBooking(t *testing.T) {
	db, svc, _ := newPaymentFixture(t)
	if err := db.Model(&domain.Booking{ID: "bk_1"}).Update("status", domain.BookingCancelled).Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, _, err := svc.CreateIntent(context.Background(), "bk_1"); err == nil {
		t.Fatal("expected error for cancelled booking")
	}
}
