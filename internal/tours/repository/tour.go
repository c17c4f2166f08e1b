package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	tourserrors "safarivista/internal/tours/errors"
	"safarivista/pkg/config"
	mongotx "safarivista/pkg/db/mongo"
	"safarivista/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Tours"
)

type mongoTourRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type TourRepository interface {
	Create(ctx context.Context, tour *model.Tour) error
	FindByID(ctx context.Context, id string) (*model.Tour, error)
	FindAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Tour, error)
	Count(ctx context.Context, category string) (int64, error)
	Update(ctx context.Context, id string, tour *model.Tour) error
	Delete(ctx context.Context, id string) error

	UpdateRatings(ctx context.Context, id string, aggregate model.RatingAggregate) error
}

func NewMongoTourRepository(cfg *config.Config) TourRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTourRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTourRepository) Create(ctx context.Context, tour *model.Tour) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tour.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, tour)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tour.ID = oid.Hex()
	}

	return nil
}

func (r *mongoTourRepository) FindByID(ctx context.Context, id string) (*model.Tour, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	var tour model.Tour
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", tourserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find tour: %w", err)
	}
	return &tour, nil
}

func categoryFilter(category string) bson.M {
	filter := bson.M{"is_active": true}
	if category != "" {
		filter["category"] = category
	}
	return filter
}

func (r *mongoTourRepository) FindAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Tour, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "ratings_average", Value: -1}, {Key: "price", Value: 1}})

	cursor, err := r.collection.Find(ctx, categoryFilter(category), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer cursor.Close(ctx)

	tours := []*model.Tour{}
	if err = cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode tours: %w", err)
	}

	return tours, nil
}

func (r *mongoTourRepository) Count(ctx context.Context, category string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, categoryFilter(category))
	if err != nil {
		return 0, fmt.Errorf("failed to count tours: %w", err)
	}
	return count, nil
}

// Update rewrites the catalogue fields. Ratings are owned by UpdateRatings
// and never written here.
func (r *mongoTourRepository) Update(ctx context.Context, id string, tour *model.Tour) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":           tour.Name,
			"summary":        tour.Summary,
			"description":    tour.Description,
			"category":       tour.Category,
			"difficulty":     tour.Difficulty,
			"season":         tour.Season,
			"price":          tour.Price,
			"price_discount": tour.PriceDiscount,
			"duration":       tour.Duration,
			"max_group_size": tour.MaxGroupSize,
			"highlights":     tour.Highlights,
			"included":       tour.Included,
			"excluded":       tour.Excluded,
			"is_active":      tour.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tour: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", tourserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoTourRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", tourserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoTourRepository) UpdateRatings(ctx context.Context, id string, aggregate model.RatingAggregate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"ratings_average":  aggregate.Average,
			"ratings_quantity": aggregate.Quantity,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tour ratings: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", tourserrors.ErrNotFound, id)
	}

	return nil
}
