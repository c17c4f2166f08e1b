package main

import (
	"safarivista/internal/users/handler"
	"safarivista/internal/users/repository"
	"safarivista/internal/users/service"
	"safarivista/internal/users/validator"
	"safarivista/pkg/app"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	"safarivista/pkg/middleware"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Users service")

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		cfg.Log.Fatal("Failed to create token manager", "error", err)
	}

	userService := service.NewUserService(
		repository.NewMongoUserRepository(cfg),
		tokens,
		validator.NewUserValidator(),
		cfg,
	)
	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(tokens, handler.NewUserHandler(userService, middleware.NewAuthenticator(tokens, cfg.Log), cfg.Log))
	serverApp.Run()
}
