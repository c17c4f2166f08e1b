package service

import (
	"context"
	"errors"
	"sync"

	tourserrors "safarivista/internal/tours/errors"
	"safarivista/internal/tours/repository"
	"safarivista/internal/tours/validator"
	"safarivista/pkg/config"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/model"
	"safarivista/pkg/sanitizer"
)

// DefaultRatingsAverage is what an unrated tour shows.
const DefaultRatingsAverage = 4.5

type TourService interface {
	Create(ctx context.Context, tour *model.Tour) error
	GetByID(ctx context.Context, id string) (*model.Tour, error)
	GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Tour, int64, error)
	Update(ctx context.Context, id string, updates *model.TourUpdate) (*model.Tour, error)
	Delete(ctx context.Context, id string) error
}

type tourService struct {
	repo      repository.TourRepository
	validator *validator.TourValidator
	cfg       *config.Config
}

func NewTourService(
	repo repository.TourRepository,
	validator *validator.TourValidator,
	cfg *config.Config,
) TourService {
	return &tourService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *tourService) Create(ctx context.Context, tour *model.Tour) error {
	s.sanitize(tour)
	tour.ID = ""
	tour.RatingsAverage = DefaultRatingsAverage
	tour.RatingsQuantity = 0
	tour.IsActive = true

	if err := s.validator.Validate(tour); err != nil {
		s.cfg.Log.Warn("Tour validation failed", "name", tour.Name, "error", err)
		return apperrors.Validation("Tour validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		s.cfg.Log.Error("Failed to create tour", "name", tour.Name, "error", err)
		return apperrors.Internal("Failed to create tour", err)
	}

	s.cfg.Log.Info("Tour created successfully",
		"id", tour.ID,
		"name", tour.Name,
		"price", tour.Price,
		"duration", tour.Duration,
	)

	return nil
}

func (s *tourService) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour ID cannot be empty")
	}

	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tour", id)
		}
		if errors.Is(err, tourserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tour ID format")
		}
		s.cfg.Log.Error("Failed to get tour by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tour", err)
	}

	return tour, nil
}

func (s *tourService) GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Tour, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)
	category = sanitizer.NormalizeKeyword(category)

	var count int64
	var tours []*model.Tour
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, category)
		if err != nil {
			s.cfg.Log.Error("Failed to count tours", "category", category, "error", err)
			errCount = apperrors.Internal("Failed to count tours", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		tours, err = s.repo.FindAll(ctx, category, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all tours",
				"category", category,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve tours", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return tours, count, nil
}

func (s *tourService) Update(ctx context.Context, id string, updates *model.TourUpdate) (*model.Tour, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Tour validation failed", map[string]any{"error": err.Error()})
	}

	merged := s.mergeTourUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Tour validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Tour validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tour", id)
		}
		s.cfg.Log.Error("Failed to update tour", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update tour", err)
	}

	s.cfg.Log.Info("Tour updated successfully", "id", id, "name", merged.Name)
	return merged, nil
}

func (s *tourService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Tour ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Tour", id)
		}
		if errors.Is(err, tourserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid tour ID format")
		}
		s.cfg.Log.Error("Failed to delete tour", "id", id, "error", err)
		return apperrors.Internal("Failed to delete tour", err)
	}

	s.cfg.Log.Info("Tour deleted successfully", "id", id)
	return nil
}

func (s *tourService) sanitize(tour *model.Tour) {
	tour.Name = sanitizer.NormalizeName(tour.Name)
	tour.Summary = sanitizer.TrimAndNormalize(tour.Summary)
	tour.Description = sanitizer.TrimAndNormalize(tour.Description)
	tour.Category = sanitizer.NormalizeKeyword(tour.Category)
	tour.Difficulty = sanitizer.NormalizeKeyword(tour.Difficulty)
	tour.Season = sanitizer.NormalizeKeyword(tour.Season)
	tour.Highlights = sanitizer.NormalizeTextList(tour.Highlights)
	tour.Included = sanitizer.NormalizeTextList(tour.Included)
	tour.Excluded = sanitizer.NormalizeTextList(tour.Excluded)
}

func (s *tourService) mergeTourUpdates(existing *model.Tour, updates *model.TourUpdate) *model.Tour {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Summary != "" {
		merged.Summary = updates.Summary
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.Difficulty != "" {
		merged.Difficulty = updates.Difficulty
	}
	if updates.Season != "" {
		merged.Season = updates.Season
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.PriceDiscount != nil {
		merged.PriceDiscount = *updates.PriceDiscount
	}
	if updates.Duration != nil {
		merged.Duration = *updates.Duration
	}
	if updates.MaxGroupSize != nil {
		merged.MaxGroupSize = *updates.MaxGroupSize
	}
	if updates.Highlights != nil {
		merged.Highlights = *updates.Highlights
	}
	if updates.Included != nil {
		merged.Included = *updates.Included
	}
	if updates.Excluded != nil {
		merged.Excluded = *updates.Excluded
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.RatingsAverage = existing.RatingsAverage
	merged.RatingsQuantity = existing.RatingsQuantity

	return &merged
}
