package notifications

import (
	"context"
	"fmt"
	"strings"

	"safarivista/pkg/kafka"
	"safarivista/pkg/logger"
	"safarivista/pkg/metrics"
)

// ConfirmationHandler turns booking.confirmed events into e-mails.
type ConfirmationHandler struct {
	mailer Mailer
	log    *logger.Logger
}

func NewConfirmationHandler(mailer Mailer, log *logger.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{mailer: mailer, log: log}
}

func (h *ConfirmationHandler) Handle(ctx context.Context, msg kafka.Message) error {
	if eventType := msg.GetEventType(); eventType != EventBookingConfirmed {
		h.log.Debug("Skipping unrelated event", "event_type", eventType, "key", msg.Key)
		return nil
	}

	var event BookingConfirmedEvent
	if err := msg.DecodeValue(&event); err != nil {
		metrics.IncNotification("deliver", false)
		return kafka.NewPermanentError("malformed booking.confirmed payload", err)
	}
	if event.Booking == nil || event.Recipient.Email == "" {
		metrics.IncNotification("deliver", false)
		return kafka.NewPermanentError("incomplete booking.confirmed payload", ErrNoRecipient)
	}

	subject, body := RenderConfirmation(event)
	if err := h.mailer.Send(ctx, event.Recipient.Email, subject, body); err != nil {
		metrics.IncNotification("deliver", false)
		return kafka.NewTransientError("failed to send confirmation e-mail", err)
	}
	metrics.IncNotification("deliver", true)

	h.log.Info("Booking confirmation sent",
		"booking_id", event.Booking.ID,
		"event_id", msg.GetEventID(),
	)
	return nil
}

// RenderConfirmation returns the subject and plain-text body of the
// confirmation e-mail.
func RenderConfirmation(event BookingConfirmedEvent) (string, string) {
	b := event.Booking
	tour := event.TourName
	if tour == "" {
		tour = "your tour"
	}

	name := event.Recipient.Name
	if name == "" {
		name = "traveller"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", name)
	fmt.Fprintf(&body, "Your booking for %q has been confirmed!\n\n", tour)
	body.WriteString("Booking details:\n")
	fmt.Fprintf(&body, "- Booking reference: %s\n", b.ID)
	fmt.Fprintf(&body, "- Start date: %s\n", b.StartDate.UTC().Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&body, "- End date: %s\n", b.EndDate.UTC().Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&body, "- Participants: %d adults, %d children, %d infants\n",
		b.Participants.Adults, b.Participants.Children, b.Participants.Infants)
	fmt.Fprintf(&body, "- Total amount: $%.2f\n\n", b.TotalAmount)
	body.WriteString("We look forward to welcoming you on this adventure!\n\n")
	body.WriteString("Best regards,\nThe SafariVista Team\n")

	subject := "Booking Confirmation"
	if event.TourName != "" {
		subject += " - " + event.TourName
	}
	return subject, body.String()
}
