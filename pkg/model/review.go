package model

import "time"

type ReviewResponse struct {
	Message     string    `json:"message" bson:"message"`
	RespondedBy string    `json:"responded_by" bson:"responded_by"`
	RespondedAt time.Time `json:"responded_at" bson:"responded_at"`
}

type Review struct {
	ID           string          `json:"id,omitempty" bson:"_id,omitempty"`
	TourID       string          `json:"tour_id" bson:"tour_id"`
	UserID       string          `json:"user_id" bson:"user_id"`
	Rating       int             `json:"rating" bson:"rating"`
	Body         string          `json:"review" bson:"review"`
	Photos       []string        `json:"photos,omitempty" bson:"photos,omitempty"`
	HelpfulCount int             `json:"helpful_count" bson:"helpful_count"`
	HelpfulBy    []string        `json:"helpful_by" bson:"helpful_by"`
	Response     *ReviewResponse `json:"response,omitempty" bson:"response,omitempty"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type ReviewInput struct {
	Rating int      `json:"rating" validate:"required,min=1,max=5"`
	Body   string   `json:"review" validate:"required,min=10,max=1000"`
	Photos []string `json:"photos,omitempty" validate:"omitempty,max=5,dive,url"`
}

type ReviewUpdate struct {
	Rating *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Body   *string   `json:"review,omitempty" validate:"omitempty,min=10,max=1000"`
	Photos *[]string `json:"photos,omitempty" validate:"omitempty,max=5,dive,url"`
}

type ReviewResponseInput struct {
	Message string `json:"message" validate:"required,min=2,max=1000"`
}

// RatingAggregate is the tour-level rating summary derived from all reviews.
type RatingAggregate struct {
	Average  float64 `json:"ratings_average"`
	Quantity int64   `json:"ratings_quantity"`
}
