package handler

import (
	"context"
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

type mockTourService struct {
	gotCategory string
}

func (m *mockTourService) Create(ctx context.Context, tour *model.Tour) error {
	tour.ID = "t1"
	return nil
}

func (m *mockTourService) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	if id == "missing" {
		return nil, apperrors.NotFoundWithID("Tour", id)
	}
	return &model.Tour{ID: id, Name: "Amboseli Elephants"}, nil
}

func (m *mockTourService) GetAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Tour, int64, error) {
	m.gotCategory = category
	return []*model.Tour{{ID: "t1"}, {ID: "t2"}}, 2, nil
}

func (m *mockTourService) Update(ctx context.Context, id string, updates *model.TourUpdate) (*model.Tour, error) {
	return &model.Tour{ID: id}, nil
}

func (m *mockTourService) Delete(ctx context.Context, id string) error {
	return nil
}

func TestTourRoutes(t *testing.T) {
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	log := logger.Discard()
	svc := &mockTourService{}

	router := httprouter.New()
	NewTourHandler(svc, middleware.NewAuthenticator(tokens, log), log).RegisterRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	withRole := func(role string) *client.TourClient {
		c := client.NewTourClient(server.URL)
		if role == "" {
			return c
		}
		tok, _ := tokens.Generate("u1", role)
		return c.WithToken(tok)
	}

	tests := []struct {
		name       string
		call       func() (*client.Response, error)
		wantStatus int
	}{
		{"public list", func() (*client.Response, error) { return withRole("").GetAll("safari", 10, 0) }, http.StatusOK},
		{"public get", func() (*client.Response, error) { return withRole("").GetByID("t1") }, http.StatusOK},
		{"missing tour", func() (*client.Response, error) { return withRole("").GetByID("missing") }, http.StatusNotFound},
		{"anonymous create", func() (*client.Response, error) { return withRole("").Create(model.Tour{}) }, http.StatusUnauthorized},
		{"user create", func() (*client.Response, error) { return withRole(auth.RoleUser).Create(model.Tour{}) }, http.StatusForbidden},
		{"lead guide create", func() (*client.Response, error) { return withRole(auth.RoleLeadGuide).Create(model.Tour{}) }, http.StatusCreated},
		{"lead guide delete", func() (*client.Response, error) { return withRole(auth.RoleLeadGuide).Delete("t1") }, http.StatusForbidden},
		{"admin delete", func() (*client.Response, error) { return withRole(auth.RoleAdmin).Delete("t1") }, http.StatusNoContent},
		{"admin update", func() (*client.Response, error) { return withRole(auth.RoleAdmin).Update("t1", model.TourUpdate{}) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.call()
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, resp.Body)
			}
		})
	}

	if svc.gotCategory != "safari" {
		t.Errorf("category = %q, want safari", svc.gotCategory)
	}
}

func TestGetAll_DecodesPage(t *testing.T) {
	log := logger.Discard()
	tokens, _ := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)

	router := httprouter.New()
	NewTourHandler(&mockTourService{}, middleware.NewAuthenticator(tokens, log), log).RegisterRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	c := client.NewTourClient(server.URL)
	resp, err := c.GetAll("", 5, 0)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	tours, meta, err := c.DecodeTours(resp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tours) != 2 || meta.TotalCount != 2 || meta.Limit != 5 {
		t.Errorf("tours=%d meta=%+v", len(tours), meta)
	}
}

func TestGetByID_DecodesTour(t *testing.T) {
	log := logger.Discard()
	tokens, _ := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)

	router := httprouter.New()
	NewTourHandler(&mockTourService{}, middleware.NewAuthenticator(tokens, log), log).RegisterRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	c := client.NewTourClient(server.URL)
	resp, err := c.GetByID("t9")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	tour, err := c.DecodeTour(resp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tour.ID != "t9" || tour.Name != "Amboseli Elephants" {
		t.Errorf("unexpected tour %+v", tour)
	}
}
