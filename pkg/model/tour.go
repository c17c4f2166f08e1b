package model

import "time"

type Tour struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string    `json:"name" bson:"name" validate:"required,min=3,max=100"`
	Summary         string    `json:"summary" bson:"summary" validate:"required,min=10,max=300"`
	Description     string    `json:"description" bson:"description" validate:"required,min=10,max=5000"`
	Category        string    `json:"category" bson:"category" validate:"required,oneof=safari beach mountain cultural adventure luxury"`
	Difficulty      string    `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	Season          string    `json:"season" bson:"season" validate:"omitempty,oneof=year-round summer winter spring autumn"`
	Price           float64   `json:"price" bson:"price" validate:"gte=0"`
	PriceDiscount   float64   `json:"price_discount,omitempty" bson:"price_discount,omitempty" validate:"omitempty,gte=0,ltfield=Price"`
	Duration        int       `json:"duration" bson:"duration" validate:"required,min=1,max=60"`
	MaxGroupSize    int       `json:"max_group_size" bson:"max_group_size" validate:"required,min=1,max=500"`
	RatingsAverage  float64   `json:"ratings_average" bson:"ratings_average"`
	RatingsQuantity int64     `json:"ratings_quantity" bson:"ratings_quantity"`
	Highlights      []string  `json:"highlights,omitempty" bson:"highlights,omitempty" validate:"omitempty,max=20,dive,min=2,max=200"`
	Included        []string  `json:"included,omitempty" bson:"included,omitempty" validate:"omitempty,max=30,dive,min=2,max=200"`
	Excluded        []string  `json:"excluded,omitempty" bson:"excluded,omitempty" validate:"omitempty,max=30,dive,min=2,max=200"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// TourUpdate never carries the rating fields: those belong to the rating aggregate.
type TourUpdate struct {
	Name          string    `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Summary       string    `json:"summary,omitempty" validate:"omitempty,min=10,max=300"`
	Description   string    `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Category      string    `json:"category,omitempty" validate:"omitempty,oneof=safari beach mountain cultural adventure luxury"`
	Difficulty    string    `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium difficult"`
	Season        string    `json:"season,omitempty" validate:"omitempty,oneof=year-round summer winter spring autumn"`
	Price         *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	PriceDiscount *float64  `json:"price_discount,omitempty" validate:"omitempty,gte=0"`
	Duration      *int      `json:"duration,omitempty" validate:"omitempty,min=1,max=60"`
	MaxGroupSize  *int      `json:"max_group_size,omitempty" validate:"omitempty,min=1,max=500"`
	Highlights    *[]string `json:"highlights,omitempty" validate:"omitempty,max=20,dive,min=2,max=200"`
	Included      *[]string `json:"included,omitempty" validate:"omitempty,max=30,dive,min=2,max=200"`
	Excluded      *[]string `json:"excluded,omitempty" validate:"omitempty,max=30,dive,min=2,max=200"`
	IsActive      *bool     `json:"is_active,omitempty"`
}
