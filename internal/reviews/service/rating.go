package service

import (
	"context"
	"fmt"

	"safarivista/pkg/logger"
	"safarivista/pkg/metrics"
	"safarivista/pkg/model"
)

// DefaultRatingsAverage is the aggregate of a tour without reviews.
const DefaultRatingsAverage = 4.5

type RatingSource interface {
	RatingStats(ctx context.Context, tourID string) (count int64, sum int64, err error)
}

type RatingWriter interface {
	UpdateRatings(ctx context.Context, tourID string, aggregate model.RatingAggregate) error
}

// ComputeRatingAggregate turns a review count and rating sum into the tour
// aggregate. The mean is rounded half up to one decimal in integer
// arithmetic so that 4.25 becomes 4.3 regardless of float representation.
func ComputeRatingAggregate(count, sum int64) model.RatingAggregate {
	if count <= 0 {
		return model.RatingAggregate{Average: DefaultRatingsAverage, Quantity: 0}
	}
	tenths := (20*sum + count) / (2 * count)
	return model.RatingAggregate{
		Average:  float64(tenths) / 10,
		Quantity: count,
	}
}

// RatingAggregator recomputes a tour's rating summary from its reviews. It
// runs after the review write has been stored and never retries; concurrent
// recomputes for the same tour are last-writer-wins.
type RatingAggregator struct {
	reviews RatingSource
	tours   RatingWriter
	log     *logger.Logger
}

func NewRatingAggregator(reviews RatingSource, tours RatingWriter, log *logger.Logger) *RatingAggregator {
	return &RatingAggregator{reviews: reviews, tours: tours, log: log}
}

func (a *RatingAggregator) Recompute(ctx context.Context, tourID string) (model.RatingAggregate, error) {
	count, sum, err := a.reviews.RatingStats(ctx, tourID)
	if err != nil {
		metrics.IncRatingRecompute(false)
		return model.RatingAggregate{}, fmt.Errorf("failed to read ratings for tour [%s]: %w", tourID, err)
	}

	aggregate := ComputeRatingAggregate(count, sum)
	if err := a.tours.UpdateRatings(ctx, tourID, aggregate); err != nil {
		metrics.IncRatingRecompute(false)
		return model.RatingAggregate{}, fmt.Errorf("failed to store ratings for tour [%s]: %w", tourID, err)
	}
	metrics.IncRatingRecompute(true)

	a.log.Debug("Tour ratings recomputed",
		"tour_id", tourID,
		"ratings_average", aggregate.Average,
		"ratings_quantity", aggregate.Quantity,
	)
	return aggregate, nil
}
