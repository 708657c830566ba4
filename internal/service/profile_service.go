package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user_auth_api/internal/model"
	"user_auth_api/internal/repository"
	"user_auth_api/internal/utils"
)

var ErrWrongOldPassword = errors.New("old password does not match")

const profileHistoryLimit = 10

// ProfileService provides profile read/update operations for an authenticated user
type ProfileService interface {
	GetProfile(ctx context.Context, userID int) (*model.User, []model.TokenHistory, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error)
	UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error
}

type profileService struct {
	userRepo    repository.UserRepository
	historyRepo repository.TokenHistoryRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repository.UserRepository, historyRepo repository.TokenHistoryRepository) ProfileService {
	return &profileService{userRepo: userRepo, historyRepo: historyRepo}
}

// GetProfile returns the user's public fields plus their most recent token history
func (s *profileService) GetProfile(ctx context.Context, userID int) (*model.User, []model.TokenHistory, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	history, err := s.historyRepo.ListByUser(ctx, userID, profileHistoryLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list token history: %w", err)
	}

	return user, history, nil
}

// UpdateProfile applies a partial update of email, full name and phone. A
// changed email is re-checked for uniqueness excluding the caller's own row.
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepo.EmailTaken(ctx, *req.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if taken {
			return nil, ErrEmailAlreadyRegistered
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to update profile in repository: %w", err)
	}

	return user, nil
}

// UpdatePassword verifies the old password before re-hashing and storing the new one
func (s *profileService) UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return ErrWrongOldPassword
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password in repository: %w", err)
	}

	return nil
}
