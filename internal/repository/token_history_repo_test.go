package repository

import (
	"context"
	"testing"
	"time"

	"user_auth_api/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryRepoMock(t *testing.T) (TokenHistoryRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewTokenHistoryRepository(mock), mock
}

func historyColumns() []string {
	return []string{"id", "user_id", "activity", "token", "created_at", "updated_at"}
}

func TestTokenHistoryRepository_Create(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)
	now := time.Now()

	record := &model.TokenHistory{
		UserID:    1,
		Activity:  model.ActivityLoginTokenCreated,
		Token:     "sometoken",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO token_histories").
		WithArgs(record.UserID, record.Activity, record.Token, now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	err := repo.Create(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, 5, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_FindLatestByUser(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM token_histories").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(historyColumns()).
			AddRow(9, 1, model.ActivityLoginTokenCreated, "latest-token", now, now))

	record, err := repo.FindLatestByUser(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "latest-token", record.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_FindLatestByUser_NoHistory(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)

	mock.ExpectQuery("SELECT (.+) FROM token_histories").
		WithArgs(99).
		WillReturnRows(pgxmock.NewRows(historyColumns()))

	record, err := repo.FindLatestByUser(context.Background(), 99)

	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_FindLatestByUserAndActivity(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM token_histories").
		WithArgs(1, model.ActivityResetCodeRequested).
		WillReturnRows(pgxmock.NewRows(historyColumns()).
			AddRow(3, 1, model.ActivityResetCodeRequested, "abc123", now, now))

	record, err := repo.FindLatestByUserAndActivity(context.Background(), 1, model.ActivityResetCodeRequested)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, model.ActivityResetCodeRequested, record.Activity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_FindLatestByTokenAndActivity(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM token_histories").
		WithArgs("abc123", model.ActivityResetCodeRequested).
		WillReturnRows(pgxmock.NewRows(historyColumns()).
			AddRow(3, 1, model.ActivityResetCodeRequested, "abc123", now, now))

	record, err := repo.FindLatestByTokenAndActivity(context.Background(), "abc123", model.ActivityResetCodeRequested)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_ListByUser(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM token_histories").
		WithArgs(1, 10).
		WillReturnRows(pgxmock.NewRows(historyColumns()).
			AddRow(2, 1, model.ActivityLoginTokenCreated, "newer", now, now).
			AddRow(1, 1, model.ActivityRegisterTokenCreated, "older", now.Add(-time.Hour), now.Add(-time.Hour)))

	records, err := repo.ListByUser(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_ListByUser_NoLimit(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)

	// limit <= 0 omits the LIMIT clause entirely
	mock.ExpectQuery("SELECT (.+) FROM token_histories").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(historyColumns()))

	records, err := repo.ListByUser(context.Background(), 1, 0)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_ListAll(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM token_histories ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(historyColumns()).
			AddRow(2, 2, model.ActivityLogout, "tok2", now, now).
			AddRow(1, 1, model.ActivityLoginTokenCreated, "tok1", now.Add(-time.Minute), now.Add(-time.Minute)))

	records, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_MarkUsed(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)

	mock.ExpectExec("UPDATE token_histories SET activity").
		WithArgs(model.ActivityResetCodeUsed, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkUsed(context.Background(), 3)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenHistoryRepository_MarkUsed_NoSuchRecord(t *testing.T) {
	repo, mock := newHistoryRepoMock(t)

	mock.ExpectExec("UPDATE token_histories SET activity").
		WithArgs(model.ActivityResetCodeUsed, 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkUsed(context.Background(), 99)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
