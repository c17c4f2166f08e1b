package model

import (
	"time"
)

type Participants struct {
	Adults   int `json:"adults" bson:"adults" validate:"min=1,max=100"`
	Children int `json:"children" bson:"children" validate:"min=0,max=100"`
	Infants  int `json:"infants" bson:"infants" validate:"min=0,max=100"`
}

// Total is the party size used for group-size checks. Infants count here even
// though they are not charged.
func (p Participants) Total() int {
	return p.Adults + p.Children + p.Infants
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" bson:"phone" validate:"required,min=5,max=20"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty" validate:"omitempty,max=50"`
}

type Booking struct {
	ID                  string            `json:"id,omitempty" bson:"_id,omitempty"`
	TourID              string            `json:"tour_id" bson:"tour_id"`
	UserID              string            `json:"user_id" bson:"user_id"`
	UnitPrice           float64           `json:"unit_price" bson:"unit_price"`
	TourDuration        int               `json:"tour_duration" bson:"tour_duration"`
	Participants        Participants      `json:"participants" bson:"participants"`
	StartDate           time.Time         `json:"start_date" bson:"start_date"`
	EndDate             time.Time         `json:"end_date" bson:"end_date"`
	Status              string            `json:"status" bson:"status"`
	PaymentStatus       string            `json:"payment_status" bson:"payment_status"`
	SpecialRequirements string            `json:"special_requirements,omitempty" bson:"special_requirements,omitempty"`
	EmergencyContact    *EmergencyContact `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`
	TotalAmount         float64           `json:"total_amount" bson:"total_amount"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// BookingRequest is the client payload for creating a booking. StartDate is a
// calendar date (YYYY-MM-DD); time of day is never accepted.
type BookingRequest struct {
	TourID              string            `json:"tour_id" validate:"required,mongodb"`
	StartDate           string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	Participants        Participants      `json:"participants"`
	SpecialRequirements string            `json:"special_requirements,omitempty" validate:"omitempty,max=500"`
	EmergencyContact    *EmergencyContact `json:"emergency_contact,omitempty" validate:"omitempty"`
}

type BookingUpdate struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
}

type MonthlyBookingStats struct {
	Month   int     `json:"month" bson:"_id"`
	Count   int64   `json:"count" bson:"count"`
	Revenue float64 `json:"revenue" bson:"revenue"`
}

type BookingStats struct {
	ConfirmedCount int64                 `json:"confirmed_count"`
	Revenue        float64               `json:"revenue"`
	AverageValue   float64               `json:"average_value"`
	Year           int                   `json:"year"`
	Monthly        []MonthlyBookingStats `json:"monthly"`
}
