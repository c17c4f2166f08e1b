package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	reviewserrors "safarivista/internal/reviews/errors"
	"safarivista/internal/reviews/repository"
	"safarivista/internal/reviews/validator"
	tourserrors "safarivista/internal/tours/errors"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/metrics"
	"safarivista/pkg/model"
	"safarivista/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type TourFinder interface {
	FindByID(ctx context.Context, id string) (*model.Tour, error)
}

type BookingChecker interface {
	HasCompletedBooking(ctx context.Context, tourID string, userID string) (bool, error)
}

type ReviewService interface {
	Create(ctx context.Context, caller auth.Identity, tourID string, input *model.ReviewInput) (*model.Review, error)
	GetByID(ctx context.Context, id string) (*model.Review, error)
	GetByTour(ctx context.Context, tourID string, limit int, offset int64) ([]*model.Review, int64, error)
	Update(ctx context.Context, id string, caller auth.Identity, updates *model.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, id string, caller auth.Identity) error
	ToggleHelpful(ctx context.Context, id string, caller auth.Identity) (*model.Review, bool, error)
	Respond(ctx context.Context, id string, caller auth.Identity, input *model.ReviewResponseInput) (*model.Review, error)
}

type reviewService struct {
	repo       repository.ReviewRepository
	tours      TourFinder
	bookings   BookingChecker
	aggregator *RatingAggregator
	validator  *validator.ReviewValidator
	cfg        *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	tours TourFinder,
	bookings BookingChecker,
	aggregator *RatingAggregator,
	validator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:       repo,
		tours:      tours,
		bookings:   bookings,
		aggregator: aggregator,
		validator:  validator,
		cfg:        cfg,
	}
}

func (s *reviewService) Create(ctx context.Context, caller auth.Identity, tourID string, input *model.ReviewInput) (*model.Review, error) {
	input.Body = sanitizer.TrimAndNormalize(input.Body)
	input.Photos = sanitizer.NormalizeURLs(input.Photos)

	if err := s.validator.Validate(input); err != nil {
		s.cfg.Log.Warn("Review validation failed", "tour_id", tourID, "user_id", caller.UserID, "error", err)
		return nil, apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.tours.FindByID(ctx, tourID); err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) || errors.Is(err, tourserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Tour", tourID)
		}
		s.cfg.Log.Error("Failed to look up tour for review", "tour_id", tourID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tour", err)
	}

	review := &model.Review{
		TourID:    tourID,
		UserID:    caller.UserID,
		Rating:    input.Rating,
		Body:      input.Body,
		Photos:    input.Photos,
		HelpfulBy: []string{},
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByTourAndUser(sessCtx, tourID, caller.UserID)
		if err != nil {
			return apperrors.Internal("Failed to check for an existing review", err)
		}
		if existing != nil {
			return apperrors.Conflict("You have already reviewed this tour")
		}

		if !caller.IsAdmin() {
			completed, err := s.bookings.HasCompletedBooking(sessCtx, tourID, caller.UserID)
			if err != nil {
				return apperrors.Internal("Failed to check booking history", err)
			}
			if !completed {
				return apperrors.PolicyViolation("You can only review tours you have completed")
			}
		}

		if err := s.repo.Create(sessCtx, review); err != nil {
			if errors.Is(err, reviewserrors.ErrDuplicate) {
				return apperrors.Conflict("You have already reviewed this tour")
			}
			return apperrors.Internal("Failed to create review", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.Internal("Failed to create review", err)
		}
		s.cfg.Log.Warn("Review not created", "tour_id", tourID, "user_id", caller.UserID, "error", err)
		return nil, err
	}
	metrics.IncReviewWrite("create")

	s.cfg.Log.Info("Review created successfully",
		"id", review.ID,
		"tour_id", tourID,
		"user_id", caller.UserID,
		"rating", review.Rating,
	)

	s.recompute(ctx, tourID)
	return review, nil
}

func (s *reviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve review")
	}
	return review, nil
}

func (s *reviewService) GetByTour(ctx context.Context, tourID string, limit int, offset int64) ([]*model.Review, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var reviews []*model.Review
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByTour(ctx, tourID)
		if err != nil {
			s.cfg.Log.Error("Failed to count reviews", "tour_id", tourID, "error", err)
			errCount = apperrors.Internal("Failed to count reviews", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reviews, err = s.repo.FindByTour(ctx, tourID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list reviews", "tour_id", tourID, "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve reviews", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reviews, count, nil
}

func (s *reviewService) Update(ctx context.Context, id string, caller auth.Identity, updates *model.ReviewUpdate) (*model.Review, error) {
	review, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(review.UserID) && !caller.IsAdmin() {
		return nil, apperrors.Forbidden("You do not have permission to update this review")
	}

	if updates.Body != nil {
		body := sanitizer.TrimAndNormalize(*updates.Body)
		updates.Body = &body
	}
	if updates.Photos != nil {
		photos := sanitizer.NormalizeURLs(*updates.Photos)
		updates.Photos = &photos
	}
	if err := s.validator.Validate(updates); err != nil {
		return nil, apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	if updates.Rating != nil {
		review.Rating = *updates.Rating
	}
	if updates.Body != nil {
		review.Body = *updates.Body
	}
	if updates.Photos != nil {
		review.Photos = *updates.Photos
	}

	if err := s.repo.Update(ctx, id, review); err != nil {
		s.cfg.Log.Error("Failed to update review", "id", id, "error", err)
		return nil, s.translate(err, id, "Failed to update review")
	}
	review.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	metrics.IncReviewWrite("update")

	s.cfg.Log.Info("Review updated successfully", "id", id, "tour_id", review.TourID)

	s.recompute(ctx, review.TourID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id string, caller auth.Identity) error {
	review, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.Owns(review.UserID) && !caller.IsAdmin() {
		return apperrors.Forbidden("You do not have permission to delete this review")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete review", "id", id, "error", err)
		return s.translate(err, id, "Failed to delete review")
	}
	metrics.IncReviewWrite("delete")

	s.cfg.Log.Info("Review deleted successfully", "id", id, "tour_id", review.TourID)

	s.recompute(ctx, review.TourID)
	return nil
}

// ToggleHelpful flips the caller's helpful mark and reports whether it was
// added.
func (s *reviewService) ToggleHelpful(ctx context.Context, id string, caller auth.Identity) (*model.Review, bool, error) {
	review, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	marked := slices.Contains(review.HelpfulBy, caller.UserID)
	if err := s.repo.SetHelpful(ctx, id, caller.UserID, !marked); err != nil {
		s.cfg.Log.Error("Failed to toggle helpful mark", "id", id, "user_id", caller.UserID, "error", err)
		return nil, false, s.translate(err, id, "Failed to update review")
	}

	if marked {
		review.HelpfulBy = slices.DeleteFunc(review.HelpfulBy, func(u string) bool { return u == caller.UserID })
		review.HelpfulCount = max(0, review.HelpfulCount-1)
	} else {
		review.HelpfulBy = append(review.HelpfulBy, caller.UserID)
		review.HelpfulCount++
	}

	return review, !marked, nil
}

func (s *reviewService) Respond(ctx context.Context, id string, caller auth.Identity, input *model.ReviewResponseInput) (*model.Review, error) {
	if !caller.HasRole(auth.RoleAdmin, auth.RoleLeadGuide) {
		return nil, apperrors.Forbidden("You do not have permission to respond to reviews")
	}

	input.Message = sanitizer.TrimAndNormalize(input.Message)
	if err := s.validator.Validate(input); err != nil {
		return nil, apperrors.Validation("Response validation failed", map[string]any{"error": err.Error()})
	}

	review, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := &model.ReviewResponse{
		Message:     input.Message,
		RespondedBy: caller.UserID,
		RespondedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.SetResponse(ctx, id, response); err != nil {
		s.cfg.Log.Error("Failed to respond to review", "id", id, "error", err)
		return nil, s.translate(err, id, "Failed to respond to review")
	}
	review.Response = response

	s.cfg.Log.Info("Review response added", "id", id, "responded_by", caller.UserID)
	return review, nil
}

// recompute refreshes the tour aggregate after a committed review write. A
// failure leaves the aggregate stale until the next review write for the tour.
func (s *reviewService) recompute(ctx context.Context, tourID string) {
	if _, err := s.aggregator.Recompute(ctx, tourID); err != nil {
		s.cfg.Log.Error("Tour rating aggregate is stale",
			"tour_id", tourID,
			"error", err,
		)
	}
}

func (s *reviewService) translate(err error, id string, message string) error {
	switch {
	case errors.Is(err, reviewserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Review", id)
	case errors.Is(err, reviewserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid review ID format")
	default:
		return apperrors.Internal(message, err)
	}
}
