package services

import (
	"context"
	"fmt"

	"orderhub/internal/models"
	"orderhub/internal/repositories"

	"github.com/sirupsen/logrus"
)

// UserService handles business logic related to users.
type UserService struct {
	repo repositories.UserRepository
	auth *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, auth *AuthService) *UserService {
	return &UserService{
		repo: repo,
		auth: auth,
	}
}

// ListUsers retrieves all users.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

// RegisterUser hashes the password and stores the user. Name and email are
// passed through as given; the store enforces email uniqueness.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password *string) (*models.User, error) {
	if password == nil {
		return nil, ErrPasswordRequired
	}

	hash, err := s.auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, name, email, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}
