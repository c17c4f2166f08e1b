package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "safarivista"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingCanceled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancel_total",
			Help:      "Count of cancellation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	reviewWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_writes_total",
			Help:      "Count of review mutations by operation.",
		},
		[]string{"operation"},
	)

	ratingRecompute = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_recompute_total",
			Help:      "Count of tour rating recomputes by result.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Count of booking notifications by stage and result.",
		},
		[]string{"stage", "result"},
	)

	kafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Count of Kafka messages by direction, topic and result.",
		},
		[]string{"direction", "topic", "result"},
	)

	kafkaDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Time spent publishing or handling a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingCreated,
			bookingCanceled,
			reviewWrites,
			ratingRecompute,
			notifications,
			kafkaMessages,
			kafkaDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTPRequest(method, code string, seconds float64) {
	httpRequests.WithLabelValues(method, code).Inc()
	httpDuration.WithLabelValues(method).Observe(seconds)
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

// IncBookingCancel records a cancellation attempt: "cancelled", "noop" or "rejected".
func IncBookingCancel(outcome string) {
	bookingCanceled.WithLabelValues(outcome).Inc()
}

func IncReviewWrite(operation string) {
	reviewWrites.WithLabelValues(operation).Inc()
}

func IncRatingRecompute(ok bool) {
	ratingRecompute.WithLabelValues(result(ok)).Inc()
}

func IncNotification(stage string, ok bool) {
	notifications.WithLabelValues(stage, result(ok)).Inc()
}

func ObserveKafka(direction, topic string, ok bool, seconds float64) {
	kafkaMessages.WithLabelValues(direction, topic, result(ok)).Inc()
	kafkaDuration.WithLabelValues(direction).Observe(seconds)
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
