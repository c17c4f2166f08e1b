package kafka_middleware

import (
	"context"
	"time"

	"safarivista/pkg/kafka"
	"safarivista/pkg/metrics"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.ObserveKafka("publish", msg.Topic, err == nil, time.Since(start).Seconds())
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.ObserveKafka("consume", msg.Topic, err == nil, time.Since(start).Seconds())
		return err
	}
}
