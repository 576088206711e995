package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/cache"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/httpapi"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/repository"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/service"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/worker"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/config"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/db"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/mq"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()

	cfg := must(config.Load())

	shutdownTracer := must(obs.InitTracer("booking-api"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	gdb := must(db.Open(cfg.PGBookingDSN))
	bookings := repository.NewBookingRepo(gdb)
	payments := repository.NewPaymentRepo(gdb)
	must(0, bookings.Migrate())
	must(0, payments.Migrate())

	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.BookingExchange))
	defer pub.Close()

	invalidator := cache.NewRedisInvalidator(cfg.RedisAddr)
	defer invalidator.Close()

	sink := worker.NewSink(pub, invalidator, cfg.NotifyQueueSize, cfg.NotifyWorkers)
	defer sink.Close()

	gw := gateway.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	bookingSvc := service.NewBookingSvc(bookings, sink)
	paymentSvc := service.NewPaymentSvc(payments, bookings, gw)
	reconciler := service.NewReconciler(payments, sink)

	router := httpapi.NewRouter(
		httpapi.NewBookingHandler(bookingSvc),
		httpapi.NewPaymentHandler(paymentSvc),
		httpapi.NewWebhookHandler(gw, reconciler),
	)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Println("[api] http listening on", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Println("[api] stopped")
}
