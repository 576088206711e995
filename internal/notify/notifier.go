package notify

import (
	"fmt"
	"log"
	"time"
)

// Notifier abstracts the delivery channel (email, SMS, push). The console
// implementation is what runs until a real channel is wired.
type Notifier interface {
	Notify(subject, message string) error
}

type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	log.Printf("[notify] %s :: %s", subject, message)
	return nil
}

// HumanDateRange renders a stay as "2026-01-10 — 2026-01-12" for messages.
func HumanDateRange(checkInUnix, checkOutUnix int64) string {
	ci := time.Unix(checkInUnix, 0).UTC()
	co := time.Unix(checkOutUnix, 0).UTC()
	return fmt.Sprintf("%s to %s", ci.Format("2006-01-02"), co.Format("2006-01-02"))
}
