package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/cache"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/repository"
)

// NotificationSink is the post-commit fan-out: fire-and-forget domain events
// plus cache invalidation. Implementations must never block the caller.
type NotificationSink interface {
	PublishDomainEvent(evt domain.Event)
	InvalidateCachePrefix(prefix string)
}

// Reconciler applies inbound gateway events to local payment and booking
// state. It is safe to call concurrently, including for duplicate deliveries
// of the same event: the decisive checks are re-run under the payment row
// lock inside ApplyReconciliation.
type Reconciler struct {
	payments *repository.PaymentRepo
	sink     NotificationSink
	now      func() time.Time
}

func NewReconciler(payments *repository.PaymentRepo, sink NotificationSink) *Reconciler {
	return &Reconciler{payments: payments, sink: sink, now: time.Now}
}

// HandleGatewayEvent runs the full reconciliation sequence for one verified
// event. A nil return means the event is settled from the gateway's point of
// view (applied, replayed, late, or orphaned). A non-nil return means the
// event was either rejected (validation) or must be redelivered (infra).
func (s *Reconciler) HandleGatewayEvent(ctx context.Context, ev *gateway.Event) error {
	p, err := s.payments.ByProviderRef(ctx, ev.IntentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Events can arrive for intents this system never created. Expected
		// noise, not an error.
		log.Printf("[reconcile] orphaned event %s (intent=%s), dropping", ev.ID, ev.IntentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup payment by intent %s: %w", ev.IntentID, err)
	}

	if p.LastEventID == ev.ID {
		log.Printf("[reconcile] replayed event %s (payment=%s), already applied", ev.ID, p.ID)
		return nil
	}
	if p.Status.IsTerminal() && !refundOfUnrefunded(ev.Kind, p.Status) {
		log.Printf("[reconcile] late event %s: payment %s already %s", ev.ID, p.ID, p.Status)
		return nil
	}

	ch, err := planChange(p, ev, s.now)
	if err != nil {
		log.Printf("[reconcile] rejected event %s: %v", ev.ID, err)
		return err
	}

	if err := checkEventConsistency(p, ev); err != nil {
		log.Printf("[reconcile] rejected event %s: %v", ev.ID, err)
		return err
	}

	outcome, p, b, err := s.payments.ApplyReconciliation(ctx, ch)
	if err != nil {
		var it *domain.InvalidTransitionError
		if errors.As(err, &it) {
			log.Printf("[reconcile] rejected event %s: %v", ev.ID, err)
		}
		return err
	}
	if outcome != repository.ReconcileApplied {
		log.Printf("[reconcile] event %s lost the race (payment=%s), no-op", ev.ID, p.ID)
		return nil
	}

	s.notifyAfterCommit(ev.Kind, p, b)
	return nil
}

// refundOfUnrefunded carves the one exception out of the terminal
// short-circuit: a refund is judged against COMPLETED specifically, so for a
// payment settled any other way it falls through to transition validation
// and surfaces as an invalid transition instead of being silently dropped.
func refundOfUnrefunded(kind gateway.EventKind, status domain.PaymentStatus) bool {
	return kind == gateway.EventChargeRefunded && status != domain.PaymentRefunded
}

// planChange maps an event kind onto the payment transition and booking
// cascade it implies, validating the transition against the current status.
func planChange(p *domain.Payment, ev *gateway.Event, now func() time.Time) (repository.ReconcileChange, error) {
	ch := repository.ReconcileChange{PaymentID: p.ID, EventID: ev.ID}

	switch ev.Kind {
	case gateway.EventPaymentSucceeded:
		ch.ToStatus = domain.PaymentCompleted
		paidAt := now().UTC()
		ch.PaidAt = &paidAt
		ch.CascadeTo = domain.BookingConfirmed
		ch.CascadeFrom = []domain.BookingStatus{domain.BookingPending}
	case gateway.EventPaymentFailed:
		ch.ToStatus = domain.PaymentFailed
		ch.FailureReason = ev.FailureMessage
		if ch.FailureReason == "" {
			ch.FailureReason = "payment failed"
		}
	case gateway.EventPaymentCanceled:
		ch.ToStatus = domain.PaymentCancelled
		ch.CascadeTo = domain.BookingCancelled
		ch.CascadeFrom = []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}
		ch.CascadeReason = "payment cancelled by gateway"
	case gateway.EventChargeRefunded:
		ch.ToStatus = domain.PaymentRefunded
		ch.CascadeTo = domain.BookingCancelled
		ch.CascadeFrom = []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}
		ch.CascadeReason = "payment refunded"
	default:
		return ch, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	if !p.Status.CanTransitionTo(ch.ToStatus) {
		return ch, &domain.InvalidTransitionError{
			Entity: "payment", ID: p.ID,
			From: string(p.Status), To: string(ch.ToStatus),
			EventID: ev.ID,
		}
	}
	return ch, nil
}

// notifyAfterCommit runs step 7: best-effort, outside the transaction. The
// sink is bounded and asynchronous; nothing here can fail the webhook.
func (s *Reconciler) notifyAfterCommit(kind gateway.EventKind, p *domain.Payment, b *domain.Booking) {
	if s.sink == nil {
		return
	}

	switch kind {
	case gateway.EventPaymentSucceeded:
		s.sink.PublishDomainEvent(domain.Event{Key: domain.RKPaymentPaid, Payload: domain.PaymentPaid{
			BookingID: p.BookingID, PaymentID: p.ID, Amount: p.Amount, Currency: p.Currency,
		}})
		if b != nil && b.Status == domain.BookingConfirmed {
			s.sink.PublishDomainEvent(domain.Event{Key: domain.RKBookingConfirmed, Payload: domain.BookingSimple{
				BookingID: b.ID,
			}})
		}
	case gateway.EventPaymentFailed:
		s.sink.PublishDomainEvent(domain.Event{Key: domain.RKPaymentFailed, Payload: domain.PaymentFailedEvent{
			BookingID: p.BookingID, PaymentID: p.ID, Reason: p.FailureReason,
		}})
	case gateway.EventPaymentCanceled, gateway.EventChargeRefunded:
		if kind == gateway.EventChargeRefunded {
			s.sink.PublishDomainEvent(domain.Event{Key: domain.RKPaymentRefunded, Payload: domain.PaymentRefundedEvent{
				BookingID: p.BookingID, PaymentID: p.ID, Amount: p.Amount, Currency: p.Currency,
			}})
		}
		if b != nil && b.Status == domain.BookingCancelled {
			s.sink.PublishDomainEvent(domain.Event{Key: domain.RKBookingCancelled, Payload: domain.BookingSimple{
				BookingID: b.ID, Reason: b.CancelReason,
			}})
		}
	}

	s.sink.InvalidateCachePrefix(cache.PrefixBooking(p.BookingID))
	if b != nil {
		s.sink.InvalidateCachePrefix(cache.PrefixRoomAvailability(b.RoomID))
		s.sink.InvalidateCachePrefix(cache.PrefixUserBookings(b.UserID))
	}
}
