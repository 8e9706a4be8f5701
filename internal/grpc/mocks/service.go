package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/service"
)

// MockInsightsService is a mock implementation of the InsightsService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockInsightsService struct {
	ImportFunc            func(ctx context.Context, records []feedback.Record) (service.ImportSummary, error)
	DistributionFunc      func(ctx context.Context) (charts.Chart, error)
	PositiveBreakdownFunc func(ctx context.Context) (charts.Chart, error)
	TimelineFunc          func(ctx context.Context, r aggregator.Range) (charts.Chart, error)
	StackedAreaFunc       func(ctx context.Context, r aggregator.Range) (charts.Chart, error)
	TopTopicsFunc         func(ctx context.Context) (charts.Chart, error)
	IssueTrendFunc        func(ctx context.Context, r aggregator.Range) (charts.Chart, error)
	OverviewFunc          func(ctx context.Context, r aggregator.Range) (service.Overview, error)
}

func (m *MockInsightsService) Import(ctx context.Context, records []feedback.Record) (service.ImportSummary, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, records)
	}
	return service.ImportSummary{}, errors.New("ImportFunc not implemented")
}

func (m *MockInsightsService) Distribution(ctx context.Context) (charts.Chart, error) {
	if m.DistributionFunc != nil {
		return m.DistributionFunc(ctx)
	}
	return charts.Chart{}, errors.New("DistributionFunc not implemented")
}

func (m *MockInsightsService) PositiveBreakdown(ctx context.Context) (charts.Chart, error) {
	if m.PositiveBreakdownFunc != nil {
		return m.PositiveBreakdownFunc(ctx)
	}
	return charts.Chart{}, errors.New("PositiveBreakdownFunc not implemented")
}

func (m *MockInsightsService) Timeline(ctx context.Context, r aggregator.Range) (charts.Chart, error) {
	if m.TimelineFunc != nil {
		return m.TimelineFunc(ctx, r)
	}
	return charts.Chart{}, errors.New("TimelineFunc not implemented")
}

func (m *MockInsightsService) StackedArea(ctx context.Context, r aggregator.Range) (charts.Chart, error) {
	if m.StackedAreaFunc != nil {
		return m.StackedAreaFunc(ctx, r)
	}
	return charts.Chart{}, errors.New("StackedAreaFunc not implemented")
}

func (m *MockInsightsService) TopTopics(ctx context.Context) (charts.Chart, error) {
	if m.TopTopicsFunc != nil {
		return m.TopTopicsFunc(ctx)
	}
	return charts.Chart{}, errors.New("TopTopicsFunc not implemented")
}

func (m *MockInsightsService) IssueTrend(ctx context.Context, r aggregator.Range) (charts.Chart, error) {
	if m.IssueTrendFunc != nil {
		return m.IssueTrendFunc(ctx, r)
	}
	return charts.Chart{}, errors.New("IssueTrendFunc not implemented")
}

func (m *MockInsightsService) Overview(ctx context.Context, r aggregator.Range) (service.Overview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, r)
	}
	return service.Overview{}, errors.New("OverviewFunc not implemented")
}
