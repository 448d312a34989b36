package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/fare"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	engine := fare.NewEngine(fare.Merged(fare.Policy{
		HighOccupancy:       cfg.Fare.HighOccupancy,
		FullOccupancy:       cfg.Fare.FullOccupancy,
		HighOccupancyFactor: cfg.Fare.HighOccupancyFactor,
		FullOccupancyFactor: cfg.Fare.FullOccupancyFactor,
		SoonDays:            cfg.Fare.SoonDays,
		ImminentDays:        cfg.Fare.ImminentDays,
		LastDay:             cfg.Fare.LastDay,
		SoonFactor:          cfg.Fare.SoonFactor,
		ImminentFactor:      cfg.Fare.ImminentFactor,
		LastDayFactor:       cfg.Fare.LastDayFactor,
	}))

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	flightService := flights.NewFlightService(flightRepo, engine, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		engine,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithPaidCancellation(cfg.Booking.CancelPaidAllowed()),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
