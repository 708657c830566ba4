package repository

import (
	"context"
	"errors"
	"fmt"

	"user_auth_api/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when an insert or update hits the unique
// constraint on users.email. The constraint is the final authority; callers
// may pre-check but must still handle this error.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (email, password_hash, full_name, phone, role, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Phone, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Phone, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// EmailTaken reports whether another user already owns the given email.
// excludeID lets profile updates skip the caller's own row.
func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	var count int
	sql := `SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`
	if err := r.db.QueryRow(ctx, sql, email, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	return count > 0, nil
}

// UpdateProfile persists email, full name and phone changes for a user
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET email = $1, full_name = $2, phone = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, sql, user.Email, user.FullName, user.Phone, user.UpdatedAt, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no user with ID %d to update", user.ID)
	}
	return nil
}

// UpdatePassword replaces the stored password hash for a user
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no user with ID %d to update", id)
	}
	return nil
}
