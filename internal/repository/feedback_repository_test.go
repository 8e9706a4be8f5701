package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/feedback-insights/internal/feedback"
)

func newMockRepo(t *testing.T) (*FeedbackRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewFeedbackRepository(db)
	repo.newID = func() string { return "id" }
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestMigrateFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS feedback").WillReturnError(errors.New("read-only"))

	err := repo.Migrate(context.Background())

	assert.ErrorContains(t, err, "migrate feedback schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRecordsFailures(t *testing.T) {
	records := []feedback.Record{{Date: feedback.ParseDate("2024-01-15"), Categories: []string{"delays"}}}

	t.Run("begin", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("locked"))

		_, err := repo.InsertRecords(context.Background(), records)

		assert.ErrorContains(t, err, "begin InsertRecords")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert rolls back", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		recordStmt := mock.ExpectPrepare(`INSERT INTO feedback \(`)
		mock.ExpectPrepare(`INSERT OR IGNORE INTO feedback_categories`)
		recordStmt.ExpectExec().
			WithArgs("id", "id", "2024-01-15", "", "2024-05-01T00:00:00Z").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := repo.InsertRecords(context.Background(), records)

		assert.ErrorContains(t, err, "insert feedback: disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		recordStmt := mock.ExpectPrepare(`INSERT INTO feedback \(`)
		tagStmt := mock.ExpectPrepare(`INSERT OR IGNORE INTO feedback_categories`)
		recordStmt.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		tagStmt.ExpectExec().WithArgs("id", "delays").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("io"))

		_, err := repo.InsertRecords(context.Background(), records)

		assert.ErrorContains(t, err, "commit InsertRecords")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListRecordsFailures(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT f.id").WillReturnError(errors.New("gone"))

		_, err := repo.ListRecords(context.Background())

		assert.ErrorContains(t, err, "query ListRecords")
	})

	t.Run("iterate", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := sqlmock.NewRows([]string{"id", "feedback_date", "subject", "category"}).
			AddRow("a", "2024-01-01", "", "delays").
			RowError(0, errors.New("broken pipe"))
		mock.ExpectQuery("SELECT f.id").WillReturnRows(rows)

		_, err := repo.ListRecords(context.Background())

		assert.ErrorContains(t, err, "iterate ListRecords")
	})
}

func TestListRecordsGroupsCategories(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "feedback_date", "subject", "category"}).
		AddRow("a", "2024-01-01", "first", "delays").
		AddRow("a", "2024-01-01", "first", "service").
		AddRow("b", nil, "second", nil)
	mock.ExpectQuery("SELECT f.id").WillReturnRows(rows)

	records, err := repo.ListRecords(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"delays", "service"}, records[0].Categories)
	assert.False(t, records[1].HasDate())
	assert.Nil(t, records[1].Categories)
}

func TestCategoryMentionsFailures(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT category").WillReturnError(errors.New("gone"))

		_, err := repo.CategoryMentions(context.Background())

		assert.ErrorContains(t, err, "query CategoryMentions")
	})

	t.Run("scan", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT category").
			WillReturnRows(sqlmock.NewRows([]string{"category", "total_mentions"}).AddRow("delays", "many"))

		_, err := repo.CategoryMentions(context.Background())

		assert.ErrorContains(t, err, "scan CategoryMentions row")
	})
}
