package notifications

import "safarivista/pkg/model"

const (
	EventBookingConfirmed = "booking.confirmed"
	SchemaVersion         = "1"
)

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingConfirmedEvent is the payload published for every newly confirmed
// booking. It carries everything the notifier needs to compose the e-mail.
type BookingConfirmedEvent struct {
	Booking   *model.Booking `json:"booking"`
	TourName  string         `json:"tour_name,omitempty"`
	Recipient Recipient      `json:"recipient"`
}
