package main

import (
	"safarivista/internal/bookings/handler"
	"safarivista/internal/bookings/repository"
	"safarivista/internal/bookings/service"
	"safarivista/internal/bookings/validator"
	"safarivista/internal/notifications"
	toursrepo "safarivista/internal/tours/repository"
	usersrepo "safarivista/internal/users/repository"
	"safarivista/pkg/app"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	"safarivista/pkg/contracts"
	"safarivista/pkg/kafka"
	kafka_config "safarivista/pkg/kafka/config"
	kafka_middleware "safarivista/pkg/kafka/middleware"
	"safarivista/pkg/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to create token manager", "error", err)
	}

	tours := toursrepo.NewMongoTourRepository(cfg)
	notifier, closers := initNotifier(cfg, tours)
	bookingService := initServices(cfg, tours, notifier)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(tokens, handler.NewBookingHandler(bookingService, middleware.NewAuthenticator(tokens, cfg.Log), cfg.Log), closers...)
	serverApp.Run()
}

// initNotifier publishes confirmations to Kafka when it is enabled and falls
// back to logging them otherwise.
func initNotifier(cfg *config.Config, tours notifications.TourLookup) (service.Notifier, []contracts.Closer) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Warn("Kafka disabled, booking confirmations will only be logged")
		return notifications.NewLogNotifier(cfg.Log), nil
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingConfirmedTopic, cfg.BookingConfirmedDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	return notifications.NewKafkaNotifier(producer, tours, ServiceName, cfg.Log), []contracts.Closer{producer}
}

func initServices(cfg *config.Config, tours service.TourFinder, notifier service.Notifier) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		tours,
		usersrepo.NewMongoUserRepository(cfg),
		notifier,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
