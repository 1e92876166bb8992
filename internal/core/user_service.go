package core

import (
	"context"
	"errors"

	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

// userService implements UserService.
type userService struct {
	users db.UserRepository
}

// NewUserService creates a UserService over the users repository.
func NewUserService(users db.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// A signed-in identity without a profile document is a legal
			// state; callers branch on presence.
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *userService) ReplaceCertifications(ctx context.Context, userID string, certs []models.Certification) error {
	return s.users.ReplaceCertifications(ctx, userID, certs)
}
