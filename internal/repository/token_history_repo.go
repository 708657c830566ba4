package repository

import (
	"context"
	"errors"
	"fmt"

	"user_auth_api/internal/model"

	"github.com/jackc/pgx/v5"
)

const tokenHistoryColumns = "id, user_id, activity, token, created_at, updated_at"

// TokenHistoryRepository defines operations for the append-only token history.
// Records are never deleted; MarkUsed is the only permitted mutation.
type TokenHistoryRepository interface {
	Create(ctx context.Context, record *model.TokenHistory) error
	FindLatestByUser(ctx context.Context, userID int) (*model.TokenHistory, error)
	FindLatestByUserAndActivity(ctx context.Context, userID int, activity string) (*model.TokenHistory, error)
	FindLatestByTokenAndActivity(ctx context.Context, token, activity string) (*model.TokenHistory, error)
	ListByUser(ctx context.Context, userID int, limit int) ([]model.TokenHistory, error)
	ListAll(ctx context.Context) ([]model.TokenHistory, error)
	MarkUsed(ctx context.Context, id int) error
}

type tokenHistoryRepository struct {
	db DB
}

// NewTokenHistoryRepository creates a new TokenHistoryRepository
func NewTokenHistoryRepository(db DB) TokenHistoryRepository {
	return &tokenHistoryRepository{db: db}
}

// Create appends a new record to the token history
func (r *tokenHistoryRepository) Create(ctx context.Context, record *model.TokenHistory) error {
	sql := `INSERT INTO token_histories (user_id, activity, token, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, record.UserID, record.Activity, record.Token, record.CreatedAt, record.UpdatedAt).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create token history record: %w", err)
	}
	return nil
}

func (r *tokenHistoryRepository) scanOne(row pgx.Row) (*model.TokenHistory, error) {
	record := &model.TokenHistory{}
	err := row.Scan(&record.ID, &record.UserID, &record.Activity, &record.Token, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to scan token history record: %w", err)
	}
	return record, nil
}

// FindLatestByUser retrieves the most recent record for a user, any activity
func (r *tokenHistoryRepository) FindLatestByUser(ctx context.Context, userID int) (*model.TokenHistory, error) {
	sql := `SELECT ` + tokenHistoryColumns + ` FROM token_histories
            WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, sql, userID))
}

// FindLatestByUserAndActivity retrieves the most recent record of one kind for a user
func (r *tokenHistoryRepository) FindLatestByUserAndActivity(ctx context.Context, userID int, activity string) (*model.TokenHistory, error) {
	sql := `SELECT ` + tokenHistoryColumns + ` FROM token_histories
            WHERE user_id = $1 AND activity = $2 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, sql, userID, activity))
}

// FindLatestByTokenAndActivity is a point lookup by token value, scoped to one
// activity so a login record whose token happens to match a reset code can
// never satisfy a reset lookup.
func (r *tokenHistoryRepository) FindLatestByTokenAndActivity(ctx context.Context, token, activity string) (*model.TokenHistory, error) {
	sql := `SELECT ` + tokenHistoryColumns + ` FROM token_histories
            WHERE token = $1 AND activity = $2 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, sql, token, activity))
}

// ListByUser retrieves a user's records, newest first. limit <= 0 means no limit.
func (r *tokenHistoryRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.TokenHistory, error) {
	sql := `SELECT ` + tokenHistoryColumns + ` FROM token_histories
            WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query token history by user: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// ListAll retrieves every record, newest first
func (r *tokenHistoryRepository) ListAll(ctx context.Context) ([]model.TokenHistory, error) {
	sql := `SELECT ` + tokenHistoryColumns + ` FROM token_histories ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query all token history: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func scanHistoryRows(rows pgx.Rows) ([]model.TokenHistory, error) {
	var records []model.TokenHistory
	for rows.Next() {
		var record model.TokenHistory
		if err := rows.Scan(&record.ID, &record.UserID, &record.Activity, &record.Token, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token history row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token history rows: %w", err)
	}
	return records, nil
}

// MarkUsed transitions a pending reset-code record to its terminal used state
func (r *tokenHistoryRepository) MarkUsed(ctx context.Context, id int) error {
	sql := `UPDATE token_histories SET activity = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, sql, model.ActivityResetCodeUsed, id)
	if err != nil {
		return fmt.Errorf("failed to mark reset code as used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no token history record with ID %d to update", id)
	}
	return nil
}
