package main

import (
	"safarivista/internal/tours/handler"
	"safarivista/internal/tours/repository"
	"safarivista/internal/tours/service"
	"safarivista/internal/tours/validator"
	"safarivista/pkg/app"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	"safarivista/pkg/middleware"
)

const ServiceName = "tours"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Tours service")

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to create token manager", "error", err)
	}

	tourService := service.NewTourService(
		repository.NewMongoTourRepository(cfg),
		validator.NewTourValidator(),
		cfg,
	)
	cfg.Log.Info("Tour service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(tokens, handler.NewTourHandler(tourService, middleware.NewAuthenticator(tokens, cfg.Log), cfg.Log))
	serverApp.Run()
}
