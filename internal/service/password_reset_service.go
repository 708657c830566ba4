package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user_auth_api/internal/mailer"
	"user_auth_api/internal/model"
	"user_auth_api/internal/repository"
	"user_auth_api/internal/utils"
)

var (
	ErrResetCooldown    = errors.New("a reset code was requested recently, please wait before trying again")
	ErrResetCodeInvalid = errors.New("reset code is invalid or already used")
	ErrResetCodeExpired = errors.New("reset code has expired")
)

// PasswordResetService drives the time-boxed, single-use reset-code flow
type PasswordResetService interface {
	InitiateReset(ctx context.Context, email string) (string, error)
	CompleteReset(ctx context.Context, code, newPassword string) (string, error)
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	historyRepo repository.TokenHistoryRepository
	mailer      mailer.Mailer
	baseURL     string
	codeTTL     time.Duration
	cooldown    time.Duration
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(userRepo repository.UserRepository, historyRepo repository.TokenHistoryRepository, m mailer.Mailer, baseURL string, codeTTL, cooldown time.Duration) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		mailer:      m,
		baseURL:     baseURL,
		codeTTL:     codeTTL,
		cooldown:    cooldown,
	}
}

// InitiateReset generates a reset code for the account, records it and emails
// a reset link. A pending code younger than the cooldown window rejects the
// request outright; nothing is generated or sent. Returns the account email
// as confirmation, never the code.
func (s *passwordResetService) InitiateReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	pending, err := s.historyRepo.FindLatestByUserAndActivity(ctx, user.ID, model.ActivityResetCodeRequested)
	if err != nil {
		return "", fmt.Errorf("failed to look up pending reset code: %w", err)
	}
	if pending != nil && time.Since(pending.CreatedAt) < s.cooldown {
		return "", ErrResetCooldown
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return "", err
	}

	record := &model.TokenHistory{
		UserID:    user.ID,
		Activity:  model.ActivityResetCodeRequested,
		Token:     code,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.historyRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to record reset code: %w", err)
	}

	// The code is persisted before delivery is attempted. A send failure fails
	// the request but leaves the pending record in place; the cooldown gate
	// keeps it from piling up.
	link := fmt.Sprintf("%s/forgot-password/submit/new-password/%s", s.baseURL, code)
	body := fmt.Sprintf("A password reset was requested for your account.\n\nOpen the link below to choose a new password. The link expires in %d minutes.\n\n%s\n\nIf you did not request this, you can ignore this email.", int(s.codeTTL.Minutes()), link)
	if err := s.mailer.Send(user.Email, "Password reset request", body); err != nil {
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}

	return user.Email, nil
}

// CompleteReset consumes a pending reset code exactly once and replaces the
// account password. Returns the account email.
func (s *passwordResetService) CompleteReset(ctx context.Context, code, newPassword string) (string, error) {
	record, err := s.historyRepo.FindLatestByTokenAndActivity(ctx, code, model.ActivityResetCodeRequested)
	if err != nil {
		return "", fmt.Errorf("failed to look up reset code: %w", err)
	}
	if record == nil {
		return "", ErrResetCodeInvalid
	}

	if time.Since(record.CreatedAt) > s.codeTTL {
		return "", ErrResetCodeExpired
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		return "", fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.historyRepo.MarkUsed(ctx, record.ID); err != nil {
		return "", err
	}

	completed := &model.TokenHistory{
		UserID:    user.ID,
		Activity:  model.ActivityResetCompleted,
		Token:     fmt.Sprintf("used code: %s", code),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.historyRepo.Create(ctx, completed); err != nil {
		return "", fmt.Errorf("failed to record reset completion: %w", err)
	}

	return user.Email, nil
}
