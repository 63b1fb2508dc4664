package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Failure paths are exercised against a mocked driver; the happy paths
// run against a real in-memory database elsewhere in this package.

func setupMockRepo(t *testing.T) (*QuestionDatabaseAdapter, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewQuestionDatabaseAdapter(sqlx.NewDb(mockDB, "sqlite")), mock
}

func TestGetAllQueryFailure(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM questions").WillReturnError(errors.New("disk I/O error"))

	_, err := repo.GetAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query questions")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllRollsBackOnClearFailure(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM questions").WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, err := repo.ReplaceAll(context.Background(), sampleQuestions(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear questions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM questions").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectPrepare("INSERT INTO questions").
		ExpectExec().
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err := repo.ReplaceAll(context.Background(), sampleQuestions(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert question")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAnswerExecFailure(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectExec("INSERT INTO attempts").
		WithArgs(int64(5), "A", 1, sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	err := repo.RecordAnswer(context.Background(), 5, "A", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record answer for question 5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavoriteCheckFailure(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectQuery("SELECT id FROM favorites").
		WithArgs(int64(5)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.ToggleFavorite(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check favorite for question 5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatisticsCountFailure(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM questions`).WillReturnError(errors.New("disk I/O error"))

	_, err := repo.GetStatistics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compute statistics")
	assert.NoError(t, mock.ExpectationsWereMet())
}
