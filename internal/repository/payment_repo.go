package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Payment{})
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepo) Save(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentRepo) ByID(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) ByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ByProviderRef resolves a payment by the gateway intent id carried in
// webhook events. gorm.ErrRecordNotFound means the event is orphaned.
func (r *PaymentRepo) ByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "provider_ref = ?", ref).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ReconcileOutcome reports what ApplyReconciliation did with the event.
type ReconcileOutcome int

const (
	// ReconcileApplied: the mutation committed.
	ReconcileApplied ReconcileOutcome = iota
	// ReconcileReplay: the event id was already recorded on the payment.
	ReconcileReplay
	// ReconcileSettled: the payment reached a terminal status first.
	ReconcileSettled
)

// ReconcileChange is the mutation the coordinator decided on. The booking
// cascade only fires when the booking's current status is in CascadeFrom.
type ReconcileChange struct {
	PaymentID string
	EventID   string
	ToStatus  domain.PaymentStatus

	PaidAt        *time.Time
	FailureReason string

	CascadeTo     domain.BookingStatus // empty = no booking change
	CascadeFrom   []domain.BookingStatus
	CascadeReason string
}

// ApplyReconciliation is the single atomic step of webhook processing. It
// locks the payment row, re-runs the idempotency/terminal/transition checks
// against the locked state (two concurrent deliveries of the same event must
// not both commit), mutates the payment, then locks and co-mutates the
// booking. Any error rolls the whole transaction back, leaving the event
// re-deliverable.
func (r *PaymentRepo) ApplyReconciliation(ctx context.Context, ch ReconcileChange) (ReconcileOutcome, *domain.Payment, *domain.Booking, error) {
	var (
		outcome ReconcileOutcome
		p       domain.Payment
		b       *domain.Booking
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&p, "id = ?", ch.PaymentID).Error; err != nil {
			return err
		}
		if p.LastEventID == ch.EventID {
			outcome = ReconcileReplay
			return nil
		}
		if p.Status.IsTerminal() {
			outcome = ReconcileSettled
			return nil
		}
		if !p.Status.CanTransitionTo(ch.ToStatus) {
			return &domain.InvalidTransitionError{
				Entity: "payment", ID: p.ID,
				From: string(p.Status), To: string(ch.ToStatus),
				EventID: ch.EventID,
			}
		}

		p.Status = ch.ToStatus
		p.LastEventID = ch.EventID
		if ch.PaidAt != nil && p.PaidAt == nil {
			p.PaidAt = ch.PaidAt
		}
		if ch.FailureReason != "" {
			p.FailureReason = ch.FailureReason
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		if ch.CascadeTo != "" {
			var bk domain.Booking
			if err := lockForUpdate(tx).First(&bk, "id = ?", p.BookingID).Error; err != nil {
				return err
			}
			if cascadeApplies(bk.Status, ch) {
				bk.Status = ch.CascadeTo
				if ch.CascadeTo == domain.BookingCancelled {
					bk.CancelReason = ch.CascadeReason
				}
				if err := tx.Save(&bk).Error; err != nil {
					return err
				}
			}
			b = &bk
		}

		outcome = ReconcileApplied
		return nil
	})
	if err != nil {
		return 0, nil, nil, err
	}
	return outcome, &p, b, nil
}

func cascadeApplies(current domain.BookingStatus, ch ReconcileChange) bool {
	for _, from := range ch.CascadeFrom {
		if current == from {
			return current.CanTransitionTo(ch.CascadeTo)
		}
	}
	return false
}
