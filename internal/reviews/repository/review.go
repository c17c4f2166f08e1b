package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reviewserrors "safarivista/internal/reviews/errors"
	"safarivista/pkg/config"
	mongotx "safarivista/pkg/db/mongo"
	"safarivista/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reviews"
)

type mongoReviewRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByTourAndUser(ctx context.Context, tourID string, userID string) (*model.Review, error)
	FindByTour(ctx context.Context, tourID string, limit int, offset int64) ([]*model.Review, error)
	CountByTour(ctx context.Context, tourID string) (int64, error)
	Update(ctx context.Context, id string, review *model.Review) error
	Delete(ctx context.Context, id string) error
	SetHelpful(ctx context.Context, id string, userID string, helpful bool) error
	SetResponse(ctx context.Context, id string, response *model.ReviewResponse) error

	// RatingStats returns the number of reviews for a tour and the sum of
	// their ratings.
	RatingStats(ctx context.Context, tourID string) (count int64, sum int64, err error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReviewRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	review.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if review.HelpfulBy == nil {
		review.HelpfulBy = []string{}
	}

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: tour %s", reviewserrors.ErrDuplicate, review.TourID)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}

	return nil
}

func (r *mongoReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	var review model.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

// FindByTourAndUser returns nil without error when the user has not reviewed
// the tour.
func (r *mongoReviewRepository) FindByTourAndUser(ctx context.Context, tourID string, userID string) (*model.Review, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var review model.Review
	err := r.collection.FindOne(ctx, bson.M{"tour_id": tourID, "user_id": userID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up review for tour [%s]: %w", tourID, err)
	}
	return &review, nil
}

func (r *mongoReviewRepository) FindByTour(ctx context.Context, tourID string, limit int, offset int64) ([]*model.Review, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"tour_id": tourID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for tour [%s]: %w", tourID, err)
	}
	defer cursor.Close(ctx)

	reviews := []*model.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) CountByTour(ctx context.Context, tourID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"tour_id": tourID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews for tour [%s]: %w", tourID, err)
	}
	return count, nil
}

func (r *mongoReviewRepository) Update(ctx context.Context, id string, review *model.Review) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	update := buildUpdate(review, time.Now().UTC())

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
	}
	return nil
}

// buildUpdate leaves photos untouched when the review carries none, since the
// collection schema only accepts an array there.
func buildUpdate(review *model.Review, now time.Time) bson.M {
	set := bson.M{
		"rating":     review.Rating,
		"review":     review.Body,
		"updated_at": now.Truncate(time.Millisecond),
	}
	if review.Photos != nil {
		set["photos"] = review.Photos
	}
	return bson.M{"$set": set}
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
	}
	return nil
}

// SetHelpful adds or removes userID from the helpful set. The filter only
// matches when the change applies, so the count moves in step with the set
// and never drops below zero.
func (r *mongoReviewRepository) SetHelpful(ctx context.Context, id string, userID string, helpful bool) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	var filter, update bson.M
	if helpful {
		filter = bson.M{"_id": objectID, "helpful_by": bson.M{"$ne": userID}}
		update = bson.M{
			"$addToSet": bson.M{"helpful_by": userID},
			"$inc":      bson.M{"helpful_count": 1},
		}
	} else {
		filter = bson.M{"_id": objectID, "helpful_by": userID, "helpful_count": bson.M{"$gt": 0}}
		update = bson.M{
			"$pull": bson.M{"helpful_by": userID},
			"$inc":  bson.M{"helpful_count": -1},
		}
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to update helpful marks: %w", err)
	}
	return nil
}

func (r *mongoReviewRepository) SetResponse(ctx context.Context, id string, response *model.ReviewResponse) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"response": response}})
	if err != nil {
		return fmt.Errorf("failed to set review response: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoReviewRepository) RatingStats(ctx context.Context, tourID string) (int64, int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour_id": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"sum":   bson.M{"$sum": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings for tour [%s]: %w", tourID, err)
	}

	var stats []struct {
		Count int64 `bson:"count"`
		Sum   int64 `bson:"sum"`
	}
	if err := cursor.All(ctx, &stats); err != nil {
		return 0, 0, fmt.Errorf("failed to decode rating stats: %w", err)
	}
	if len(stats) == 0 {
		return 0, 0, nil
	}
	return stats[0].Count, stats[0].Sum, nil
}

func (r *mongoReviewRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
