package grpc

import (
	"context"
	"time"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// prefixInvalidator is implemented by caches that can drop a key family.
type prefixInvalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)
}

// ttlReader is implemented by caches that report a key's remaining lifetime.
type ttlReader interface {
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type InsightsService interface {
	Import(ctx context.Context, records []feedback.Record) (service.ImportSummary, error)
	Distribution(ctx context.Context) (charts.Chart, error)
	PositiveBreakdown(ctx context.Context) (charts.Chart, error)
	Timeline(ctx context.Context, r aggregator.Range) (charts.Chart, error)
	StackedArea(ctx context.Context, r aggregator.Range) (charts.Chart, error)
	TopTopics(ctx context.Context) (charts.Chart, error)
	IssueTrend(ctx context.Context, r aggregator.Range) (charts.Chart, error)
	Overview(ctx context.Context, r aggregator.Range) (service.Overview, error)
}
