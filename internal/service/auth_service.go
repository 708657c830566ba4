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

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidToken           = errors.New("invalid or expired token")
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	VerifyToken(ctx context.Context, tokenString string) (*model.User, error)
	Logout(ctx context.Context, userID int, tokenString string) error
}

type authService struct {
	userRepo    repository.UserRepository
	historyRepo repository.TokenHistoryRepository
	jwtUtil     *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, historyRepo repository.TokenHistoryRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		jwtUtil:     jwtUtil,
	}
}

// Register creates a new user account, issues a token and records it
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrEmailAlreadyRegistered
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique constraint is the final authority, the pre-check above is
		// only a fast path.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyRegistered
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	if err := s.recordActivity(ctx, user.ID, model.ActivityRegisterTokenCreated, token); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token. If the most recent
// recorded token for the user is still valid it is handed back unchanged and a
// retrieval record is appended; otherwise a fresh token is minted. One logical
// session token stays alive across logins within its lifetime.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // Same error as password mismatch, no account enumeration
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	latest, err := s.historyRepo.FindLatestByUser(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up latest token record: %w", err)
	}

	if latest != nil {
		// Reset-code and logout records fail JWT validation, so only a live
		// bearer token can ever be reused here.
		if _, err := s.jwtUtil.ValidateToken(latest.Token); err == nil {
			if err := s.recordActivity(ctx, user.ID, model.ActivityLoginTokenRetrieved, latest.Token); err != nil {
				return nil, "", err
			}
			return user, latest.Token, nil
		}
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.recordActivity(ctx, user.ID, model.ActivityLoginTokenCreated, token); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// VerifyToken validates a bearer token and confirms its user still exists
func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.jwtUtil.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken // Token outlived its account
	}

	if err := s.recordActivity(ctx, user.ID, model.ActivityAccessVerified, tokenString); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout records the presented token. The token itself stays cryptographically
// valid until its natural expiry; there is no server-side revocation list.
func (s *authService) Logout(ctx context.Context, userID int, tokenString string) error {
	return s.recordActivity(ctx, userID, model.ActivityLogout, tokenString)
}

func (s *authService) recordActivity(ctx context.Context, userID int, activity, token string) error {
	record := &model.TokenHistory{
		UserID:    userID,
		Activity:  activity,
		Token:     token,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.historyRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", activity, err)
	}
	return nil
}
