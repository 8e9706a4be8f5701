package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/repository/models"
)

// MockFeedbackRepository is a mock implementation of the FeedbackRepository interface
// for testing the service layer.
type MockFeedbackRepository struct {
	InsertRecordsFunc    func(ctx context.Context, records []feedback.Record) (models.ImportResult, error)
	ListRecordsFunc      func(ctx context.Context) ([]feedback.Record, error)
	CategoryMentionsFunc func(ctx context.Context) ([]models.CategoryMention, error)
}

// InsertRecords implements the FeedbackRepository interface
func (m *MockFeedbackRepository) InsertRecords(ctx context.Context, records []feedback.Record) (models.ImportResult, error) {
	if m.InsertRecordsFunc != nil {
		return m.InsertRecordsFunc(ctx, records)
	}
	return models.ImportResult{}, errors.New("InsertRecordsFunc not implemented")
}

// ListRecords implements the FeedbackRepository interface
func (m *MockFeedbackRepository) ListRecords(ctx context.Context) ([]feedback.Record, error) {
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx)
	}
	return nil, errors.New("ListRecordsFunc not implemented")
}

// CategoryMentions implements the FeedbackRepository interface
func (m *MockFeedbackRepository) CategoryMentions(ctx context.Context) ([]models.CategoryMention, error) {
	if m.CategoryMentionsFunc != nil {
		return m.CategoryMentionsFunc(ctx)
	}
	return nil, errors.New("CategoryMentionsFunc not implemented")
}
