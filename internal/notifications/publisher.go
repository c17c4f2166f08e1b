package notifications

import (
	"context"
	"errors"
	"fmt"

	"safarivista/pkg/kafka"
	"safarivista/pkg/logger"
	"safarivista/pkg/middleware"
	"safarivista/pkg/model"
)

var ErrNoRecipient = errors.New("booking confirmation has no recipient")

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type TourLookup interface {
	FindByID(ctx context.Context, id string) (*model.Tour, error)
}

// KafkaNotifier publishes booking confirmations for the notifier service.
type KafkaNotifier struct {
	publisher Publisher
	tours     TourLookup
	source    string
	log       *logger.Logger
}

// NewKafkaNotifier builds a notifier. tours may be nil, in which case events
// go out without the tour name.
func NewKafkaNotifier(publisher Publisher, tours TourLookup, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: publisher,
		tours:     tours,
		source:    source,
		log:       log,
	}
}

func (n *KafkaNotifier) NotifyBookingConfirmed(ctx context.Context, booking *model.Booking, user *model.User) error {
	if user == nil || user.Email == "" {
		return fmt.Errorf("%w: booking %s", ErrNoRecipient, booking.ID)
	}

	event := BookingConfirmedEvent{
		Booking:   booking,
		Recipient: Recipient{Name: user.Name, Email: user.Email},
	}
	if n.tours != nil {
		if tour, err := n.tours.FindByID(ctx, booking.TourID); err == nil {
			event.TourName = tour.Name
		} else {
			n.log.Warn("Tour lookup for confirmation failed", "booking_id", booking.ID, "tour_id", booking.TourID, "error", err)
		}
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(EventBookingConfirmed).
		WithSchemaVersion(SchemaVersion).
		WithSource(n.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build confirmation message: %w", err)
	}

	if err := n.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish confirmation for booking %s: %w", booking.ID, err)
	}
	return nil
}

// LogNotifier only logs confirmations. Used when no broker is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyBookingConfirmed(_ context.Context, booking *model.Booking, user *model.User) error {
	args := []any{"booking_id", booking.ID, "tour_id", booking.TourID, "total_amount", booking.TotalAmount}
	if user != nil {
		args = append(args, "recipient", user.Email)
	}
	n.log.Info("Booking confirmed", args...)
	return nil
}
