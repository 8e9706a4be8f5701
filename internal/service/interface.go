package service

import (
	"context"

	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/repository/models"
)

// FeedbackRepository defines the storage operations the service relies on.
type FeedbackRepository interface {
	InsertRecords(ctx context.Context, records []feedback.Record) (models.ImportResult, error)
	ListRecords(ctx context.Context) ([]feedback.Record, error)
	CategoryMentions(ctx context.Context) ([]models.CategoryMention, error)
}
