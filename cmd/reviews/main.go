package main

import (
	bookingsrepo "safarivista/internal/bookings/repository"
	"safarivista/internal/reviews/handler"
	"safarivista/internal/reviews/repository"
	"safarivista/internal/reviews/service"
	"safarivista/internal/reviews/validator"
	toursrepo "safarivista/internal/tours/repository"
	"safarivista/pkg/app"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	"safarivista/pkg/middleware"
)

const ServiceName = "reviews"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Reviews service")

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to create token manager", "error", err)
	}

	reviewService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(tokens, handler.NewReviewHandler(reviewService, middleware.NewAuthenticator(tokens, cfg.Log), cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ReviewService {
	reviewRepo := repository.NewMongoReviewRepository(cfg)
	tourRepo := toursrepo.NewMongoTourRepository(cfg)
	aggregator := service.NewRatingAggregator(reviewRepo, tourRepo, cfg.Log)

	reviewService := service.NewReviewService(
		reviewRepo,
		tourRepo,
		bookingsrepo.NewMongoBookingRepository(cfg),
		aggregator,
		validator.NewReviewValidator(),
		cfg,
	)

	cfg.Log.Info("Review service initialized", "database", cfg.MongoDatabaseName)
	return reviewService
}
