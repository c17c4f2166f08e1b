package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	reviewserrors "safarivista/internal/reviews/errors"
	"safarivista/internal/reviews/validator"
	tourserrors "safarivista/internal/tours/errors"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/logger"
	"safarivista/pkg/model"
	mongotx "safarivista/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockReviewRepository struct {
	mu      sync.Mutex
	reviews map[string]*model.Review
	seq     int
}

func newMockRepo() *mockReviewRepository {
	return &mockReviewRepository{reviews: map[string]*model.Review{}}
}

func (m *mockReviewRepository) put(r *model.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *r
	m.reviews[r.ID] = &copied
}

func (m *mockReviewRepository) Create(_ context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TourID == review.TourID && r.UserID == review.UserID {
			return reviewserrors.ErrDuplicate
		}
	}
	m.seq++
	review.ID = fmt.Sprintf("review-%d", m.seq)
	copied := *review
	m.reviews[review.ID] = &copied
	return nil
}

func (m *mockReviewRepository) FindByID(_ context.Context, id string) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
	}
	copied := *r
	copied.HelpfulBy = slices.Clone(r.HelpfulBy)
	return &copied, nil
}

func (m *mockReviewRepository) FindByTourAndUser(_ context.Context, tourID string, userID string) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TourID == tourID && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockReviewRepository) FindByTour(_ context.Context, tourID string, _ int, _ int64) ([]*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Review{}
	for _, r := range m.reviews {
		if r.TourID == tourID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) CountByTour(ctx context.Context, tourID string) (int64, error) {
	reviews, _ := m.FindByTour(ctx, tourID, 0, 0)
	return int64(len(reviews)), nil
}

func (m *mockReviewRepository) Update(_ context.Context, id string, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return reviewserrors.ErrNotFound
	}
	r.Rating, r.Body, r.Photos = review.Rating, review.Body, review.Photos
	return nil
}

func (m *mockReviewRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return reviewserrors.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) SetHelpful(_ context.Context, id string, userID string, helpful bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return reviewserrors.ErrNotFound
	}
	has := slices.Contains(r.HelpfulBy, userID)
	switch {
	case helpful && !has:
		r.HelpfulBy = append(r.HelpfulBy, userID)
		r.HelpfulCount++
	case !helpful && has && r.HelpfulCount > 0:
		r.HelpfulBy = slices.DeleteFunc(r.HelpfulBy, func(u string) bool { return u == userID })
		r.HelpfulCount--
	}
	return nil
}

func (m *mockReviewRepository) SetResponse(_ context.Context, id string, response *model.ReviewResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return reviewserrors.ErrNotFound
	}
	r.Response = response
	return nil
}

func (m *mockReviewRepository) RatingStats(_ context.Context, tourID string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count, sum int64
	for _, r := range m.reviews {
		if r.TourID == tourID {
			count++
			sum += int64(r.Rating)
		}
	}
	return count, sum, nil
}

func (m *mockReviewRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockTourStore struct {
	mu      sync.Mutex
	tours   map[string]*model.Tour
	ratings map[string]model.RatingAggregate
	failing bool
}

func (m *mockTourStore) FindByID(_ context.Context, id string) (*model.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[id]
	if !ok {
		return nil, tourserrors.ErrNotFound
	}
	return t, nil
}

func (m *mockTourStore) UpdateRatings(_ context.Context, id string, aggregate model.RatingAggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("tour store unavailable")
	}
	m.ratings[id] = aggregate
	return nil
}

type mockBookingChecker struct {
	completed map[string]bool
}

func (m *mockBookingChecker) HasCompletedBooking(_ context.Context, tourID string, userID string) (bool, error) {
	return m.completed[tourID+"/"+userID], nil
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

type fixture struct {
	repo     *mockReviewRepository
	tours    *mockTourStore
	bookings *mockBookingChecker
	svc      ReviewService
}

func newFixture() *fixture {
	repo := newMockRepo()
	tours := &mockTourStore{
		tours:   map[string]*model.Tour{"t1": {ID: "t1", Name: "Serengeti Explorer", IsActive: true}},
		ratings: map[string]model.RatingAggregate{},
	}
	bookings := &mockBookingChecker{completed: map[string]bool{"t1/u1": true, "t1/u2": true}}
	cfg := &config.Config{Log: logger.Discard(), WriteTimeout: 5 * time.Second}
	aggregator := NewRatingAggregator(repo, tours, cfg.Log)
	return &fixture{
		repo:     repo,
		tours:    tours,
		bookings: bookings,
		svc:      NewReviewService(repo, tours, bookings, aggregator, validator.NewReviewValidator(), cfg),
	}
}

var (
	alice = auth.Identity{UserID: "u1", Role: auth.RoleUser}
	bob   = auth.Identity{UserID: "u2", Role: auth.RoleUser}
	carol = auth.Identity{UserID: "u3", Role: auth.RoleUser}
	admin = auth.Identity{UserID: "a1", Role: auth.RoleAdmin}
	lead  = auth.Identity{UserID: "l1", Role: auth.RoleLeadGuide}
)

func input(rating int) *model.ReviewInput {
	return &model.ReviewInput{Rating: rating, Body: "Superb guides and plenty of wildlife."}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreate_RecomputesAggregate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, alice, "t1", input(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Create(ctx, bob, "t1", input(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Create(ctx, admin, "t1", input(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := f.tours.ratings["t1"]
	if got.Average != 4.0 || got.Quantity != 3 {
		t.Errorf("aggregate = %+v, want 4.0/3", got)
	}
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		caller auth.Identity
		tourID string
		input  *model.ReviewInput
		code   string
	}{
		{"unknown tour", alice, "nope", input(4), apperrors.CodeNotFound},
		{"no completed booking", carol, "t1", input(4), apperrors.CodePolicyViolation},
		{"rating too high", alice, "t1", input(6), apperrors.CodeValidation},
		{"rating too low", alice, "t1", input(0), apperrors.CodeValidation},
		{"short body", alice, "t1", &model.ReviewInput{Rating: 4, Body: "ok"}, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(context.Background(), tt.caller, tt.tourID, tt.input)
			assertCode(t, err, tt.code)
			if len(f.repo.reviews) != 0 {
				t.Error("no review should be stored")
			}
		})
	}
}

func TestCreate_DuplicateIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, alice, "t1", input(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.svc.Create(ctx, alice, "t1", input(2))
	assertCode(t, err, apperrors.CodeConflict)

	if got := f.tours.ratings["t1"]; got.Quantity != 1 || got.Average != 4.0 {
		t.Errorf("aggregate changed by rejected review: %+v", got)
	}
}

func TestCreate_AdminSkipsBookingCheck(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), admin, "t1", input(5)); err != nil {
		t.Fatalf("admin should review without a booking: %v", err)
	}
}

func TestCreate_RecomputeFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.tours.failing = true

	review, err := f.svc.Create(context.Background(), alice, "t1", input(4))
	if err != nil {
		t.Fatalf("review write should succeed, got %v", err)
	}
	if _, ok := f.repo.reviews[review.ID]; !ok {
		t.Error("review should be stored")
	}
}

func TestUpdate_OwnershipAndRecompute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	review, err := f.svc.Create(ctx, alice, "t1", input(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rating := 5
	_, err = f.svc.Update(ctx, review.ID, bob, &model.ReviewUpdate{Rating: &rating})
	assertCode(t, err, apperrors.CodeForbidden)

	updated, err := f.svc.Update(ctx, review.ID, alice, &model.ReviewUpdate{Rating: &rating})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("Rating = %d", updated.Rating)
	}
	if got := f.tours.ratings["t1"]; got.Average != 5.0 {
		t.Errorf("aggregate = %+v, want 5.0", got)
	}

	bad := 9
	_, err = f.svc.Update(ctx, review.ID, admin, &model.ReviewUpdate{Rating: &bad})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestDelete_ResetsAggregate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	review, err := f.svc.Create(ctx, alice, "t1", input(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCode(t, f.svc.Delete(ctx, review.ID, bob), apperrors.CodeForbidden)

	if err := f.svc.Delete(ctx, review.ID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.tours.ratings["t1"]; got.Average != DefaultRatingsAverage || got.Quantity != 0 {
		t.Errorf("aggregate = %+v, want default", got)
	}

	assertCode(t, f.svc.Delete(ctx, review.ID, admin), apperrors.CodeNotFound)
}

func TestToggleHelpful(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.put(&model.Review{ID: "r1", TourID: "t1", UserID: "u1", Rating: 4, HelpfulBy: []string{}})

	review, marked, err := f.svc.ToggleHelpful(ctx, "r1", bob)
	if err != nil || !marked || review.HelpfulCount != 1 {
		t.Fatalf("first toggle: marked=%v count=%d err=%v", marked, review.HelpfulCount, err)
	}

	review, marked, err = f.svc.ToggleHelpful(ctx, "r1", bob)
	if err != nil || marked || review.HelpfulCount != 0 {
		t.Fatalf("second toggle: marked=%v count=%d err=%v", marked, review.HelpfulCount, err)
	}

	// A corrupted document with a listed user but zero count must not go
	// negative.
	f.repo.put(&model.Review{ID: "r2", TourID: "t1", UserID: "u1", Rating: 4, HelpfulBy: []string{"u2"}})
	review, _, err = f.svc.ToggleHelpful(ctx, "r2", bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.HelpfulCount != 0 || f.repo.reviews["r2"].HelpfulCount != 0 {
		t.Errorf("helpful count went negative: %d", review.HelpfulCount)
	}
}

func TestRespond(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.put(&model.Review{ID: "r1", TourID: "t1", UserID: "u1", Rating: 4})

	_, err := f.svc.Respond(ctx, "r1", alice, &model.ReviewResponseInput{Message: "Thanks!"})
	assertCode(t, err, apperrors.CodeForbidden)

	review, err := f.svc.Respond(ctx, "r1", lead, &model.ReviewResponseInput{Message: "  Thank   you for travelling with us. "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Response == nil || review.Response.Message != "Thank you for travelling with us." {
		t.Errorf("Response = %+v", review.Response)
	}
	if review.Response.RespondedBy != "l1" {
		t.Errorf("RespondedBy = %q", review.Response.RespondedBy)
	}

	_, err = f.svc.Respond(ctx, "missing", admin, &model.ReviewResponseInput{Message: "Thanks"})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetByTour(t *testing.T) {
	f := newFixture()
	f.repo.put(&model.Review{ID: "r1", TourID: "t1", UserID: "u1", Rating: 4})
	f.repo.put(&model.Review{ID: "r2", TourID: "t1", UserID: "u2", Rating: 5})
	f.repo.put(&model.Review{ID: "r3", TourID: "t2", UserID: "u1", Rating: 1})

	reviews, total, err := f.svc.GetByTour(context.Background(), "t1", 0, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(reviews) != 2 {
		t.Errorf("total = %d, len = %d", total, len(reviews))
	}
}
