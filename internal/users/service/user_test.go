package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	userserrors "safarivista/internal/users/errors"
	"safarivista/internal/users/validator"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/logger"
	"safarivista/pkg/model"
)

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockRepo() *mockUserRepository {
	return &mockUserRepository{users: map[string]*model.User{}}
}

func (m *mockUserRepository) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: %s", userserrors.ErrDuplicateEmail, user.Email)
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, userserrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func newTestService(t *testing.T) (UserService, *mockUserRepository, auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	repo := newMockRepo()
	cfg := &config.Config{Log: logger.Discard(), PhoneRegion: "KE"}
	return NewUserService(repo, tokens, validator.NewUserValidator(), cfg), repo, tokens
}

func signup() *model.SignupRequest {
	return &model.SignupRequest{
		Name:            "  Amina   Otieno ",
		Email:           " Amina@Example.COM ",
		Phone:           "0712 345 678",
		Password:        "kilimanjaro",
		PasswordConfirm: "kilimanjaro",
	}
}

func TestSignup_IssuesUserToken(t *testing.T) {
	svc, repo, tokens := newTestService(t)

	resp, err := svc.Signup(context.Background(), signup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.users[resp.User.ID]
	if stored.Email != "amina@example.com" || stored.Name != "Amina Otieno" || stored.Phone != "+254712345678" {
		t.Errorf("stored user not normalized: %+v", stored)
	}
	if stored.Role != auth.RoleUser {
		t.Errorf("Role = %q", stored.Role)
	}
	if stored.PasswordHash == "kilimanjaro" || !auth.CheckPasswordHash("kilimanjaro", stored.PasswordHash) {
		t.Error("password should be stored as a bcrypt hash")
	}

	claims, err := tokens.Validate(resp.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != auth.RoleUser {
		t.Errorf("claims = %+v", claims)
	}
}

func TestSignup_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.SignupRequest)
	}{
		{"password mismatch", func(r *model.SignupRequest) { r.PasswordConfirm = "kilimanjar0" }},
		{"short password", func(r *model.SignupRequest) { r.Password, r.PasswordConfirm = "short", "short" }},
		{"bad email", func(r *model.SignupRequest) { r.Email = "not-an-email" }},
		{"bad phone", func(r *model.SignupRequest) { r.Phone = "12345" }},
		{"missing name", func(r *model.SignupRequest) { r.Name = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			req := signup()
			tt.mutate(req)

			_, err := svc.Signup(context.Background(), req)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if len(repo.users) != 0 {
				t.Error("no user should be stored")
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signup()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := signup()
	again.Email = "AMINA@example.com"
	_, err := svc.Signup(ctx, again)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, signup()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{"valid", "amina@example.com", "kilimanjaro", ""},
		{"email case", "AMINA@EXAMPLE.COM", "kilimanjaro", ""},
		{"wrong password", "amina@example.com", "serengeti", apperrors.CodeUnauthorized},
		{"unknown email", "juma@example.com", "kilimanjaro", apperrors.CodeUnauthorized},
		{"missing password", "amina@example.com", "", apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, &model.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantCode == "" {
				if err != nil || resp.Token == "" {
					t.Fatalf("expected token, got err %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	resp, err := svc.Signup(ctx, signup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := svc.Me(ctx, auth.Identity{UserID: resp.User.ID, Role: auth.RoleUser})
	if err != nil || user.Email != "amina@example.com" {
		t.Fatalf("Me() = %+v, %v", user, err)
	}

	_, err = svc.Me(ctx, auth.Identity{UserID: "ghost", Role: auth.RoleUser})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
