package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "safarivista/internal/bookings/errors"
	"safarivista/pkg/config"
	mongotx "safarivista/pkg/db/mongo"
	"safarivista/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, status string, paymentStatus string) error
	HasCompletedBooking(ctx context.Context, tourID string, userID string) (bool, error)
	Stats(ctx context.Context, since time.Time) (*model.BookingStats, error)
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}

	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	bookings, err := r.find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for user [%s]: %w", userID, err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// UpdateStatus sets the status and/or payment status. Empty values are left
// untouched; the price fields are never part of the update.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status string, paymentStatus string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if status != "" {
		set["status"] = status
	}
	if paymentStatus != "" {
		set["payment_status"] = paymentStatus
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoBookingRepository) HasCompletedBooking(ctx context.Context, tourID string, userID string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"tour_id": tourID,
		"user_id": userID,
		"status":  config.Completed,
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to look up completed booking: %w", err)
	}
	return count > 0, nil
}

// Stats aggregates confirmed bookings: an all-time overview plus a per-month
// breakdown of bookings created on or after since.
func (r *mongoBookingRepository) Stats(ctx context.Context, since time.Time) (*model.BookingStats, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	overviewPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": config.Confirmed}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
			"average": bson.M{"$avg": "$total_amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, overviewPipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking overview: %w", err)
	}
	var overview []struct {
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &overview); err != nil {
		return nil, fmt.Errorf("failed to decode booking overview: %w", err)
	}

	monthlyPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":     config.Confirmed,
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$month": "$created_at"},
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err = r.collection.Aggregate(ctx, monthlyPipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly bookings: %w", err)
	}
	monthly := []model.MonthlyBookingStats{}
	if err := cursor.All(ctx, &monthly); err != nil {
		return nil, fmt.Errorf("failed to decode monthly bookings: %w", err)
	}

	stats := &model.BookingStats{Year: since.Year(), Monthly: monthly}
	if len(overview) > 0 {
		stats.ConfirmedCount = overview[0].Count
		stats.Revenue = overview[0].Revenue
		stats.AverageValue = overview[0].Average
	}
	return stats, nil
}
