package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/notify"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/mq"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/obs"
)

type Cfg struct {
	RabbitURL       string `envconfig:"RABBIT_URL" required:"true"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`
	NotifyQueue     string `envconfig:"NOTIFY_QUEUE" default:"notify.q"`
	Prefetch        int    `envconfig:"NOTIFY_PREFETCH" default:"8"`
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()

	var cfg Cfg
	must(0, envconfig.Process("", &cfg))

	shutdownTracer := must(obs.InitTracer("booking-notify"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	cons := must(mq.NewConsumer(cfg.RabbitURL, cfg.BookingExchange, cfg.NotifyQueue, notify.Bindings, cfg.Prefetch))
	defer cons.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	log.Println("[notify] consuming", cfg.NotifyQueue)
	if err := notify.NewConsumer(cons, notify.NewConsole()).Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("[notify] stopped")
}
