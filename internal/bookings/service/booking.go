package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "safarivista/internal/bookings/errors"
	"safarivista/internal/bookings/repository"
	"safarivista/internal/bookings/validator"
	tourserrors "safarivista/internal/tours/errors"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/metrics"
	"safarivista/pkg/model"
	"safarivista/pkg/sanitizer"
)

type TourFinder interface {
	FindByID(ctx context.Context, id string) (*model.Tour, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Notifier delivers the booking confirmation. Delivery is best effort: the
// booking is already stored when it runs.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, booking *model.Booking, user *model.User) error
}

type BookingService interface {
	Create(ctx context.Context, caller auth.Identity, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error)
	GetByID(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error)
	GetMine(ctx context.Context, caller auth.Identity) ([]*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Stats(ctx context.Context) (*model.BookingStats, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	tours     TourFinder
	users     UserFinder
	notifier  Notifier
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	tours TourFinder,
	users UserFinder,
	notifier Notifier,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		tours:     tours,
		users:     users,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, caller auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	startDate, err := ParseStartDate(req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": "start_date must be a calendar date (YYYY-MM-DD)"})
	}
	if startDate.Before(startOfDay(s.now())) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": "start_date cannot be in the past"})
	}

	tour, err := s.tours.FindByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, tourserrors.ErrNotFound) || errors.Is(err, tourserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Tour", req.TourID)
		}
		s.cfg.Log.Error("Failed to look up tour for booking", "tour_id", req.TourID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tour", err)
	}
	if !tour.IsActive {
		return nil, apperrors.NotFoundWithID("Tour", req.TourID)
	}

	if party := req.Participants.Total(); party > tour.MaxGroupSize {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"error": fmt.Sprintf("party size (%d) exceeds the tour's maximum group size (%d)", party, tour.MaxGroupSize),
		})
	}

	booking := &model.Booking{
		TourID:              tour.ID,
		UserID:              caller.UserID,
		UnitPrice:           tour.Price,
		TourDuration:        tour.Duration,
		Participants:        req.Participants,
		StartDate:           startDate,
		EndDate:             ComputeEndDate(startDate, tour.Duration),
		Status:              config.Confirmed,
		PaymentStatus:       config.PaymentPending,
		SpecialRequirements: req.SpecialRequirements,
		EmergencyContact:    req.EmergencyContact,
		TotalAmount:         ComputeTotal(tour.Price, req.Participants),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "tour_id", tour.ID, "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}
	metrics.IncBookingCreated()

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tour_id", booking.TourID,
		"user_id", booking.UserID,
		"start_date", booking.StartDate.Format(dateLayout),
		"total_amount", booking.TotalAmount,
	)

	s.notifyConfirmed(ctx, booking)

	return booking, nil
}

func (s *bookingService) notifyConfirmed(ctx context.Context, booking *model.Booking) {
	if s.notifier == nil {
		return
	}

	timeout := s.cfg.NotificationTimeout
	if timeout <= 0 {
		timeout = config.DefaultNotificationTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var user *model.User
	if s.users != nil {
		u, err := s.users.FindByID(ctx, booking.UserID)
		if err != nil {
			s.cfg.Log.Warn("Could not load booking owner for notification", "booking_id", booking.ID, "user_id", booking.UserID, "error", err)
		} else {
			user = u
		}
	}

	err := s.notifier.NotifyBookingConfirmed(ctx, booking, user)
	metrics.IncNotification("publish", err == nil)
	if err != nil {
		s.cfg.Log.Warn("Failed to send booking confirmation", "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) Cancel(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.Owns(booking.UserID) && !caller.IsAdmin() {
		metrics.IncBookingCancel("rejected")
		return nil, apperrors.Forbidden("You do not have permission to cancel this booking")
	}

	if booking.Status == config.Cancelled {
		metrics.IncBookingCancel("noop")
		return booking, nil
	}
	if booking.Status == config.Completed {
		metrics.IncBookingCancel("rejected")
		return nil, apperrors.PolicyViolation("Completed bookings cannot be cancelled")
	}

	if days := DaysUntil(s.now(), booking.StartDate); days < s.cfg.CancellationWindowDays {
		metrics.IncBookingCancel("rejected")
		return nil, apperrors.PolicyViolation(fmt.Sprintf(
			"Cancellation window closed: bookings can only be cancelled at least %d days before the start date",
			s.cfg.CancellationWindowDays,
		)).WithDetails(map[string]any{"days_until_start": days})
	}

	if err := s.repo.UpdateStatus(ctx, id, config.Cancelled, ""); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, s.translate(err, id, "Failed to cancel booking")
	}
	booking.Status = config.Cancelled
	metrics.IncBookingCancel("cancelled")

	s.cfg.Log.Info("Booking cancelled", "id", id, "user_id", caller.UserID, "role", caller.Role)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.Owns(booking.UserID) && !caller.HasRole(auth.RoleAdmin, auth.RoleLeadGuide) {
		return nil, apperrors.Forbidden("You do not have permission to view this booking")
	}

	return booking, nil
}

func (s *bookingService) GetMine(ctx context.Context, caller auth.Identity) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByUser(ctx, caller.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Status != "" && !CanTransition(booking.Status, updates.Status) {
		return nil, apperrors.PolicyViolation(fmt.Sprintf(
			"Booking status cannot change from %s to %s", booking.Status, updates.Status,
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, updates.Status, updates.PaymentStatus); err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, s.translate(err, id, "Failed to update booking")
	}

	if updates.Status != "" {
		booking.Status = updates.Status
	}
	if updates.PaymentStatus != "" {
		booking.PaymentStatus = updates.PaymentStatus
	}

	s.cfg.Log.Info("Booking updated successfully",
		"id", id,
		"status", booking.Status,
		"payment_status", booking.PaymentStatus,
	)
	return booking, nil
}

func (s *bookingService) Stats(ctx context.Context) (*model.BookingStats, error) {
	now := s.now().UTC()
	since := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.repo.Stats(ctx, since)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate booking stats", "error", err)
		return nil, apperrors.Internal("Failed to compute booking stats", err)
	}
	return stats, nil
}

// --- Helpers ---

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) translate(err error, id string, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal(message, err)
	}
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.TourID = sanitizer.TrimAndNormalize(req.TourID)
	req.StartDate = sanitizer.TrimAndNormalize(req.StartDate)
	req.SpecialRequirements = sanitizer.TrimAndNormalize(req.SpecialRequirements)

	if ec := req.EmergencyContact; ec != nil {
		ec.Name = sanitizer.NormalizeName(ec.Name)
		ec.Phone = sanitizer.NormalizePhone(ec.Phone, s.cfg.PhoneRegion)
		ec.Relationship = sanitizer.NormalizeKeyword(ec.Relationship)
	}
}
