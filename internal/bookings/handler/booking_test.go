package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"safarivista/pkg/auth"
	"safarivista/pkg/client"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/logger"
	"safarivista/pkg/middleware"
	"safarivista/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc func(ctx context.Context, caller auth.Identity, req *model.BookingRequest) (*model.Booking, error)
	cancelFunc func(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error)
	getAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, caller auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
	return m.createFunc(ctx, caller, req)
}

func (m *mockBookingService) Cancel(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error) {
	return m.cancelFunc(ctx, id, caller)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error) {
	return &model.Booking{ID: id, UserID: caller.UserID}, nil
}

func (m *mockBookingService) GetMine(ctx context.Context, caller auth.Identity) ([]*model.Booking, error) {
	return []*model.Booking{{ID: "b1", UserID: caller.UserID}}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	return &model.Booking{ID: id, Status: updates.Status}, nil
}

func (m *mockBookingService) Stats(ctx context.Context) (*model.BookingStats, error) {
	return &model.BookingStats{Year: 2030, ConfirmedCount: 2}, nil
}

func newTestServer(t *testing.T, svc *mockBookingService) (*httptest.Server, auth.TokenManager) {
	t.Helper()

	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	log := logger.Discard()

	router := httprouter.New()
	NewBookingHandler(svc, middleware.NewAuthenticator(tokens, log), log).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, tokens
}

func token(t *testing.T, tokens auth.TokenManager, userID, role string) string {
	t.Helper()
	tok, err := tokens.Generate(userID, role)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return tok
}

func TestCreate_PassesCallerAndReturns201(t *testing.T) {
	var gotCaller auth.Identity
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, caller auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
			gotCaller = caller
			return &model.Booking{ID: "b1", UserID: caller.UserID, TourID: req.TourID, TotalAmount: 270}, nil
		},
	}
	server, tokens := newTestServer(t, svc)
	c := client.NewBookingClient(server.URL).WithToken(token(t, tokens, "u1", auth.RoleUser))

	resp, err := c.Create(model.BookingRequest{
		TourID:       "507f1f77bcf86cd799439011",
		StartDate:    "2030-06-01",
		Participants: model.Participants{Adults: 2, Children: 1},
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	booking, err := c.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if booking.TotalAmount != 270 || booking.UserID != "u1" {
		t.Errorf("unexpected booking %+v", booking)
	}
	if gotCaller.UserID != "u1" || gotCaller.Role != auth.RoleUser {
		t.Errorf("caller = %+v", gotCaller)
	}
}

func TestCreate_RequiresLogin(t *testing.T) {
	server, _ := newTestServer(t, &mockBookingService{})
	c := client.NewBookingClient(server.URL)

	resp, err := c.Create(model.BookingRequest{})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	server, tokens := newTestServer(t, &mockBookingService{})
	httpClient := client.NewHttpClient(server.URL).WithToken(token(t, tokens, "u1", auth.RoleUser))

	resp, err := httpClient.POSTRaw("/api/v1/bookings", []byte(`{"tour_id": `))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if msg := client.GetErrorMessage(resp); msg != "Invalid request body" {
		t.Errorf("message = %q", msg)
	}
}

func TestCreate_RepeatedKeyReplaysFirstBooking(t *testing.T) {
	calls := 0
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, caller auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
			calls++
			return &model.Booking{ID: fmt.Sprintf("b%d", calls), UserID: caller.UserID, TourID: req.TourID}, nil
		},
	}

	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	log := logger.Discard()
	router := httprouter.New()
	NewBookingHandler(svc, middleware.NewAuthenticator(tokens, log), log).RegisterRoutes(router)

	store := middleware.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	server := httptest.NewServer(middleware.Idempotency(store, middleware.IdempotencyHeader)(router))
	t.Cleanup(server.Close)

	c := client.NewBookingClient(server.URL).WithToken(token(t, tokens, "u1", auth.RoleUser))
	req := model.BookingRequest{
		TourID:       "507f1f77bcf86cd799439011",
		StartDate:    "2030-06-01",
		Participants: model.Participants{Adults: 1},
	}

	var ids []string
	for i := 0; i < 2; i++ {
		resp, err := c.CreateWithKey(req, "booking-key-1")
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("request %d status = %d, body = %s", i, resp.StatusCode, resp.Body)
		}
		booking, err := c.DecodeBooking(resp)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		ids = append(ids, booking.ID)
		if i == 1 && resp.Header.Get("Idempotent-Replayed") != "true" {
			t.Error("second response was not replayed")
		}
	}

	if calls != 1 {
		t.Errorf("service called %d times, want 1", calls)
	}
	if ids[0] != ids[1] {
		t.Errorf("replayed booking id = %s, want %s", ids[1], ids[0])
	}
}

func TestCancel_PolicyViolationMapsTo400(t *testing.T) {
	svc := &mockBookingService{
		cancelFunc: func(ctx context.Context, id string, caller auth.Identity) (*model.Booking, error) {
			return nil, apperrors.PolicyViolation("Cancellation window closed")
		},
	}
	server, tokens := newTestServer(t, svc)
	c := client.NewBookingClient(server.URL).WithToken(token(t, tokens, "u1", auth.RoleUser))

	resp, err := c.Cancel("b1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if code := client.GetErrorCode(resp); code != apperrors.CodePolicyViolation {
		t.Errorf("code = %q, want %q", code, apperrors.CodePolicyViolation)
	}
}

func TestStaffRoutes(t *testing.T) {
	server, tokens := newTestServer(t, &mockBookingService{})

	tests := []struct {
		name       string
		role       string
		call       func(c *client.BookingClient) (*client.Response, error)
		wantStatus int
	}{
		{"user lists all", auth.RoleUser, func(c *client.BookingClient) (*client.Response, error) { return c.GetAll(10, 0) }, http.StatusForbidden},
		{"lead guide lists all", auth.RoleLeadGuide, func(c *client.BookingClient) (*client.Response, error) { return c.GetAll(10, 0) }, http.StatusOK},
		{"guide reads stats", auth.RoleGuide, func(c *client.BookingClient) (*client.Response, error) { return c.Stats() }, http.StatusForbidden},
		{"admin reads stats", auth.RoleAdmin, func(c *client.BookingClient) (*client.Response, error) { return c.Stats() }, http.StatusOK},
		{"user updates", auth.RoleUser, func(c *client.BookingClient) (*client.Response, error) {
			return c.Update("b1", model.BookingUpdate{Status: "completed"})
		}, http.StatusForbidden},
		{"admin updates", auth.RoleAdmin, func(c *client.BookingClient) (*client.Response, error) {
			return c.Update("b1", model.BookingUpdate{Status: "completed"})
		}, http.StatusOK},
		{"user reads mine", auth.RoleUser, func(c *client.BookingClient) (*client.Response, error) { return c.GetMine() }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := client.NewBookingClient(server.URL).WithToken(token(t, tokens, "u1", tt.role))
			resp, err := tt.call(c)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, resp.Body)
			}
		})
	}
}

func TestGetAll_InvalidQueryParameters(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	svc := &mockBookingService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
			receivedLimit = limit
			receivedOffset = offset
			return []*model.Booking{}, 0, nil
		},
	}
	server, tokens := newTestServer(t, svc)
	httpClient := client.NewHttpClient(server.URL).WithToken(token(t, tokens, "a1", auth.RoleAdmin))

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset int64
	}{
		{"defaults", "", http.StatusOK, 10, 0},
		{"explicit", "?limit=25&offset=50", http.StatusOK, 25, 50},
		{"limit capped", "?limit=1000", http.StatusOK, 100, 0},
		{"negative offset", "?offset=-5", http.StatusOK, 10, 0},
		{"non numeric limit", "?limit=abc", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receivedLimit, receivedOffset = 0, 0
			resp, err := httpClient.GET("/api/v1/bookings" + tt.query)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if receivedLimit != tt.wantLimit || receivedOffset != tt.wantOffset {
				t.Errorf("service got limit=%d offset=%d, want %d/%d", receivedLimit, receivedOffset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestStats_Decodes(t *testing.T) {
	server, tokens := newTestServer(t, &mockBookingService{})
	c := client.NewBookingClient(server.URL).WithToken(token(t, tokens, "a1", auth.RoleAdmin))

	resp, err := c.Stats()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	stats, err := c.DecodeStats(resp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Year != 2030 || stats.ConfirmedCount != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestGetAll_DecodesPage(t *testing.T) {
	svc := &mockBookingService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
			return []*model.Booking{{ID: "b1"}, {ID: "b2"}}, 7, nil
		},
	}
	server, tokens := newTestServer(t, svc)
	c := client.NewBookingClient(server.URL).WithToken(token(t, tokens, "l1", auth.RoleLeadGuide))

	resp, err := c.GetAll(2, 4)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	bookings, meta, err := c.DecodeBookings(resp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bookings) != 2 || meta.TotalCount != 7 || meta.Limit != 2 || meta.Offset != 4 {
		t.Errorf("bookings=%d meta=%+v", len(bookings), meta)
	}
}
