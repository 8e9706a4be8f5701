package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/repository"
	"github.com/godilite/feedback-insights/internal/repository/models"
)

func setupTestDB(t *testing.T) (*sql.DB, *repository.FeedbackRepository) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewFeedbackRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return db, repo
}

func TestFeedbackRepository_Integration(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	records := []feedback.Record{
		{Date: feedback.ParseDate("2024-01-15"), Categories: []string{"delays"}, Subject: "Train late"},
		{Date: feedback.ParseDate("2024-01-20"), Categories: []string{"delays", "service", "delays"}},
		{Categories: []string{"positive", "sin_categoria"}, Subject: "Thanks"},
		{Date: feedback.ParseDate("2024-02-01")},
	}

	result, err := repo.InsertRecords(ctx, records)
	require.NoError(t, err)

	t.Run("InsertRecords", func(t *testing.T) {
		_, err := uuid.Parse(result.BatchID)
		require.NoError(t, err)
		assert.Equal(t, models.ImportResult{BatchID: result.BatchID, Inserted: 4, Tagged: 3, Undated: 1}, result)
	})

	t.Run("ListRecords", func(t *testing.T) {
		got, err := repo.ListRecords(ctx)
		require.NoError(t, err)
		require.Len(t, got, 4)

		assert.Equal(t, "Train late", got[0].Subject)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got[0].Date)
		assert.Equal(t, []string{"delays", "service"}, got[1].Categories)
		assert.False(t, got[2].HasDate())
		assert.Equal(t, []string{"positive", "sin_categoria"}, got[2].Categories)
		assert.Nil(t, got[3].Categories)
		assert.True(t, got[3].HasDate())
	})

	t.Run("CategoryMentions", func(t *testing.T) {
		got, err := repo.CategoryMentions(ctx)
		require.NoError(t, err)

		assert.Equal(t, []models.CategoryMention{
			{Category: "delays", TotalMentions: 2},
			{Category: "positive", TotalMentions: 1},
			{Category: "service", TotalMentions: 1},
			{Category: "sin_categoria", TotalMentions: 1},
		}, got)
	})

	t.Run("batches append", func(t *testing.T) {
		second, err := repo.InsertRecords(ctx, []feedback.Record{{Categories: []string{"hygiene"}}})
		require.NoError(t, err)
		assert.NotEqual(t, result.BatchID, second.BatchID)

		got, err := repo.ListRecords(ctx)
		require.NoError(t, err)
		require.Len(t, got, 5)
		assert.Equal(t, []string{"hygiene"}, got[4].Categories)
	})
}

func TestFeedbackRepository_Empty(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	mentions, err := repo.CategoryMentions(ctx)
	require.NoError(t, err)
	assert.Empty(t, mentions)

	result, err := repo.InsertRecords(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Inserted)
}

func TestFeedbackRepository_MigrateIsIdempotent(t *testing.T) {
	_, repo := setupTestDB(t)
	require.NoError(t, repo.Migrate(context.Background()))
}
