package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user_auth_api/internal/model"
	"user_auth_api/internal/repository"
)

var ErrForbidden = errors.New("forbidden: admin role required")

// TokenHistoryService exposes the audit trail. Listing every user's history is
// restricted to admins.
type TokenHistoryService interface {
	ListOwn(ctx context.Context, userID int) ([]model.TokenHistory, error)
	ListAll(ctx context.Context, callerRole string) ([]model.TokenHistory, error)
	Append(ctx context.Context, req model.CreateTokenHistoryRequest) (*model.TokenHistory, error)
}

type tokenHistoryService struct {
	userRepo    repository.UserRepository
	historyRepo repository.TokenHistoryRepository
}

// NewTokenHistoryService creates a new TokenHistoryService
func NewTokenHistoryService(userRepo repository.UserRepository, historyRepo repository.TokenHistoryRepository) TokenHistoryService {
	return &tokenHistoryService{userRepo: userRepo, historyRepo: historyRepo}
}

// ListOwn returns the caller's own records, newest first
func (s *tokenHistoryService) ListOwn(ctx context.Context, userID int) ([]model.TokenHistory, error) {
	records, err := s.historyRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list token history: %w", err)
	}
	return records, nil
}

// ListAll returns every record, newest first. Admin only.
func (s *tokenHistoryService) ListAll(ctx context.Context, callerRole string) ([]model.TokenHistory, error) {
	if callerRole != model.RoleAdmin {
		return nil, ErrForbidden
	}
	records, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all token history: %w", err)
	}
	return records, nil
}

// Append writes a record on behalf of the system or an admin. The user
// reference must exist.
func (s *tokenHistoryService) Append(ctx context.Context, req model.CreateTokenHistoryRequest) (*model.TokenHistory, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	record := &model.TokenHistory{
		UserID:    req.UserID,
		Activity:  req.Activity,
		Token:     req.Token,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.historyRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create token history record: %w", err)
	}
	return record, nil
}
