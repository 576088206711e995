package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGBookingDSN string `envconfig:"PG_BOOKING_DSN" required:"true"`

	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Stripe
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`

	// RabbitMQ
	RabbitURL       string `envconfig:"RABBIT_URL" required:"true"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	// Redis (read-path cache; this service only invalidates)
	RedisAddr string `envconfig:"REDIS_ADDR" default:"redis:6379"`

	// Notification sink
	NotifyQueueSize int `envconfig:"NOTIFY_QUEUE_SIZE" default:"256"`
	NotifyWorkers   int `envconfig:"NOTIFY_WORKERS" default:"4"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
