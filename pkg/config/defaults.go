package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "safarivista"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 15 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisDB = 0

	DefaultJWTTTL = 90 * 24 * time.Hour

	DefaultCancellationWindowDays = 7
	DefaultPhoneRegion            = "KE"

	DefaultBookingConfirmedTopic = "booking-confirmed"
	DefaultBookingConfirmedDLQ   = "dlq-booking-confirmed"
	DefaultNotifierGroupID       = "notifier"
	DefaultNotificationTimeout   = 5 * time.Second

	DefaultSMTPPort = 587
	DefaultSMTPFrom = "no-reply@safarivista.com"

	DefaultPaginationLimit = 100
)

// Booking statuses.
const (
	Pending   = "pending"
	Confirmed = "confirmed"
	Cancelled = "cancelled"
	Completed = "completed"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)
