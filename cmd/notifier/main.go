package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"safarivista/internal/notifications"
	"safarivista/pkg/config"
	"safarivista/pkg/kafka"
	kafka_config "safarivista/pkg/kafka/config"
	kafka_middleware "safarivista/pkg/kafka/middleware"
	"safarivista/pkg/metrics"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	metrics.Register()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Fatal("Kafka is disabled, the notifier has nothing to consume")
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	var mailer notifications.Mailer
	if cfg.SMTPHost != "" {
		mailer = notifications.NewSMTPMailer(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		cfg.Log.Warn("SMTP not configured, confirmations will be logged")
		mailer = notifications.NewLogMailer(cfg.Log)
	}

	handler := notifications.NewConfirmationHandler(mailer, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.BookingConfirmedTopic, cfg.NotifierGroupID, cfg.BookingConfirmedDLQ, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier consuming", "topic", cfg.BookingConfirmedTopic, "group", cfg.NotifierGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
