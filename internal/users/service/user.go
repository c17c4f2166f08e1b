package service

import (
	"context"
	"errors"

	userserrors "safarivista/internal/users/errors"
	"safarivista/internal/users/repository"
	"safarivista/internal/users/validator"
	"safarivista/pkg/auth"
	"safarivista/pkg/config"
	apperrors "safarivista/pkg/errors"
	"safarivista/pkg/model"
	"safarivista/pkg/sanitizer"
)

type UserService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, caller auth.Identity) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	tokens    auth.TokenManager
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(repo repository.UserRepository, tokens auth.TokenManager, validator *validator.UserValidator, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		tokens:    tokens,
		validator: validator,
		cfg:       cfg,
	}
}

// Signup registers a regular user. Elevated roles are granted out of band.
func (s *userService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Signup validation failed", "email", req.Email, "error", err)
		return nil, apperrors.Validation("Signup validation failed", map[string]any{"error": err.Error()})
	}

	var phone string
	if req.Phone != "" {
		phone = sanitizer.NormalizePhone(req.Phone, s.cfg.PhoneRegion)
		if phone == "" {
			return nil, apperrors.Validation("Signup validation failed", map[string]any{"phone": "invalid phone number"})
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        phone,
		Role:         auth.RoleUser,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User signed up", "id", user.ID)
	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Incorrect email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}
	if !user.Active || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("Incorrect email or password")
	}

	return s.issue(user)
}

func (s *userService) Me(ctx context.Context, caller auth.Identity) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", caller.UserID)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}
