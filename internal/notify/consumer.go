package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/mq"
)

// Bindings lists every routing key this consumer renders.
var Bindings = []string{
	domain.RKBookingCreated,
	domain.RKBookingConfirmed,
	domain.RKBookingCancelled,
	domain.RKPaymentPaid,
	domain.RKPaymentFailed,
	domain.RKPaymentRefunded,
}

type Consumer struct {
	cons     *mq.Consumer
	notifier Notifier
}

func NewConsumer(cons *mq.Consumer, n Notifier) *Consumer {
	return &Consumer{cons: cons, notifier: n}
}

// Run consumes until ctx is cancelled. Handler errors requeue the delivery;
// unknown routing keys are acknowledged and skipped.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handle(d); err != nil {
				log.Printf("[notify] handle key=%s failed: %v, requeueing", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(d amqp.Delivery) error {
	switch d.RoutingKey {
	case domain.RKBookingCreated:
		ev, err := domain.MustUnmarshal[domain.BookingCreated](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Booking received",
			fmt.Sprintf("Booking %s, room %s, %s.", ev.BookingID, ev.RoomID, HumanDateRange(ev.CheckIn, ev.CheckOut)))

	case domain.RKBookingConfirmed:
		ev, err := domain.MustUnmarshal[domain.BookingSimple](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Booking confirmed",
			fmt.Sprintf("Booking %s is confirmed.", ev.BookingID))

	case domain.RKBookingCancelled:
		ev, err := domain.MustUnmarshal[domain.BookingSimple](d.Body)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Booking %s was cancelled.", ev.BookingID)
		if ev.Reason != "" {
			msg = fmt.Sprintf("%s Reason: %s", msg, ev.Reason)
		}
		return c.notifier.Notify("Booking cancelled", msg)

	case domain.RKPaymentPaid:
		ev, err := domain.MustUnmarshal[domain.PaymentPaid](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Payment received",
			fmt.Sprintf("Booking %s paid %.2f %s.", ev.BookingID, ev.Amount, strings.ToUpper(ev.Currency)))

	case domain.RKPaymentFailed:
		ev, err := domain.MustUnmarshal[domain.PaymentFailedEvent](d.Body)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Payment failed for booking %s.", ev.BookingID)
		if ev.Reason != "" {
			msg = fmt.Sprintf("%s Reason: %s", msg, ev.Reason)
		}
		return c.notifier.Notify("Payment failed", msg)

	case domain.RKPaymentRefunded:
		ev, err := domain.MustUnmarshal[domain.PaymentRefundedEvent](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("Payment refunded",
			fmt.Sprintf("Booking %s refunded %.2f %s.", ev.BookingID, ev.Amount, strings.ToUpper(ev.Currency)))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
