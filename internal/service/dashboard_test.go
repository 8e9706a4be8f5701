package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/insights"
	"github.com/godilite/feedback-insights/internal/repository/models"
	"github.com/godilite/feedback-insights/internal/service/mocks"
)

func rec(date string, tags ...string) feedback.Record {
	return feedback.Record{Date: feedback.ParseDate(date), Categories: tags}
}

func sampleRecords() []feedback.Record {
	return []feedback.Record{
		rec("2024-01-15", "delays"),
		rec("2024-01-20", "delays", "service"),
		rec("2024-02-01", "positive", "service"),
	}
}

func listing(records []feedback.Record) *mocks.MockFeedbackRepository {
	return &mocks.MockFeedbackRepository{
		ListRecordsFunc: func(ctx context.Context) ([]feedback.Record, error) {
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return nil, errors.New("expected a db deadline")
			}
			return records, nil
		},
	}
}

func newService(repo FeedbackRepository, renderer charts.Renderer) *DashboardService {
	clock := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewDashboardService(repo, renderer, insights.DefaultConfig(), zap.NewNop(), WithClock(clock))
}

func TestNewDashboardService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{}
		logger := zap.NewNop()

		s := NewDashboardService(repo, charts.NewCollector(), insights.DefaultConfig(), logger)

		assert.NotNil(t, s)
		assert.Equal(t, repo, s.storage)
		assert.Equal(t, logger, s.logger)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewDashboardService(nil, nil, insights.DefaultConfig(), zap.NewNop())
		})
	})

	t.Run("nil logger and renderer get defaults", func(t *testing.T) {
		s := NewDashboardService(&mocks.MockFeedbackRepository{}, nil, insights.DefaultConfig(), nil)

		assert.NotNil(t, s.logger)
		assert.NotNil(t, s.builder)
	})
}

func TestCharts(t *testing.T) {
	ctx := context.Background()

	t.Run("charts are rendered and returned", func(t *testing.T) {
		col := charts.NewCollector()
		s := newService(listing(sampleRecords()), col)

		dist, err := s.Distribution(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, dist.Total)

		top, err := s.TopTopics(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Service", "Delays", "Positive", "Infrastructure", "User", "Hygiene", "Comfort"}, top.Labels)

		pos, err := s.PositiveBreakdown(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Service"}, pos.Labels)

		timeline, err := s.Timeline(ctx, aggregator.RangeLastMonth)
		require.NoError(t, err)
		assert.Equal(t, []string{"Jan 2024", "Feb 2024"}, timeline.Labels)

		area, err := s.StackedArea(ctx, aggregator.RangeAll)
		require.NoError(t, err)
		assert.Len(t, area.Series, 7)

		trend, err := s.IssueTrend(ctx, aggregator.RangeAll)
		require.NoError(t, err)
		assert.Len(t, trend.Series, 6)

		for _, k := range []charts.Kind{charts.KindDistribution, charts.KindTopTopics, charts.KindPositiveBreakdown, charts.KindTimeline, charts.KindStackedArea, charts.KindIssueTrend} {
			_, ok := col.Last(k)
			assert.True(t, ok, k)
		}
	})

	t.Run("empty range", func(t *testing.T) {
		s := newService(listing([]feedback.Record{{Categories: []string{"delays"}}}), charts.NewCollector())

		c, err := s.Timeline(ctx, aggregator.RangeLastYear)

		assert.ErrorIs(t, err, ErrNoDataForRange)
		assert.True(t, c.NoData)
	})

	t.Run("no positive feedback", func(t *testing.T) {
		s := newService(listing([]feedback.Record{rec("2024-01-01", "delays")}), charts.NewCollector())

		_, err := s.PositiveBreakdown(ctx)

		assert.ErrorIs(t, err, ErrNoDataForRange)
		assert.ErrorContains(t, err, "No positive feedback data available")
	})

	t.Run("empty store", func(t *testing.T) {
		s := newService(listing(nil), charts.NewCollector())

		_, err := s.Distribution(ctx)

		assert.ErrorIs(t, err, ErrNoFeedback)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			ListRecordsFunc: func(ctx context.Context) ([]feedback.Record, error) {
				return nil, errors.New("database is locked")
			},
		}
		s := newService(repo, charts.NewCollector())

		_, err := s.IssueTrend(ctx, aggregator.RangeAll)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.ErrorContains(t, err, "database is locked")
	})

	t.Run("render failure", func(t *testing.T) {
		failing := charts.RendererFunc(func(context.Context, charts.Chart) error { return errors.New("no canvas") })
		s := newService(listing(sampleRecords()), failing)

		_, err := s.Distribution(ctx)

		assert.ErrorIs(t, err, charts.ErrRender)
	})
}

func TestOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("all range with cross-check", func(t *testing.T) {
		repo := listing(sampleRecords())
		repo.CategoryMentionsFunc = func(ctx context.Context) ([]models.CategoryMention, error) {
			return []models.CategoryMention{
				{Category: "delays", TotalMentions: 2},
				{Category: "service", TotalMentions: 3},
				{Category: "sin_categoria", TotalMentions: 7},
			}, nil
		}
		s := newService(repo, nil)

		o, err := s.Overview(ctx, aggregator.RangeAll)

		require.NoError(t, err)
		assert.Equal(t, aggregator.RangeAll, o.Range)
		assert.Nil(t, o.Cutoff)
		assert.Equal(t, 3, o.Records)
		assert.Equal(t, 5, o.TotalMentions)
		require.Len(t, o.Categories, 7)
		assert.Equal(t, CategoryShare{Category: feedback.Service, Count: 2, Percentage: 40}, o.Categories[0])
		assert.Empty(t, o.ActiveIssues)
		assert.Equal(t, insights.Split{Negative: 4, Positive: 1, NegativePercentage: 80, PositivePercentage: 20}, o.Sentiment)
		assert.Equal(t, []feedback.Mismatch{{Category: feedback.Service, Expected: 3, Computed: 2}}, o.Mismatches)
	})

	t.Run("relative range skips cross-check", func(t *testing.T) {
		repo := listing(sampleRecords())
		repo.CategoryMentionsFunc = func(ctx context.Context) ([]models.CategoryMention, error) {
			t.Fatal("cross-check must not run for relative ranges")
			return nil, nil
		}
		s := newService(repo, nil)

		o, err := s.Overview(ctx, aggregator.RangeLastMonth)

		require.NoError(t, err)
		require.NotNil(t, o.Cutoff)
		assert.Equal(t, feedback.ParseDate("2024-01-01"), *o.Cutoff)
		assert.Equal(t, 3, o.Records)
	})

	t.Run("active issues use configured thresholds", func(t *testing.T) {
		cfg := insights.Config{
			Levels:    []insights.Level{{Severity: insights.SeverityHigh, Above: 1}},
			Sentiment: insights.DefaultConfig().Sentiment,
		}
		repo := listing(sampleRecords())
		repo.CategoryMentionsFunc = func(ctx context.Context) ([]models.CategoryMention, error) { return nil, nil }
		s := NewDashboardService(repo, nil, cfg, zap.NewNop())

		o, err := s.Overview(ctx, aggregator.RangeAll)

		require.NoError(t, err)
		assert.Equal(t, []insights.Issue{
			{Category: feedback.Service, Count: 2, Severity: insights.SeverityHigh},
			{Category: feedback.Delays, Count: 2, Severity: insights.SeverityHigh},
		}, o.ActiveIssues)
	})

	t.Run("empty range", func(t *testing.T) {
		s := newService(listing([]feedback.Record{{Categories: []string{"delays"}}}), nil)

		_, err := s.Overview(ctx, aggregator.RangeLastQuarter)

		assert.ErrorIs(t, err, ErrNoDataForRange)
	})

	t.Run("mentions failure", func(t *testing.T) {
		repo := listing(sampleRecords())
		repo.CategoryMentionsFunc = func(ctx context.Context) ([]models.CategoryMention, error) {
			return nil, errors.New("timeout")
		}
		s := newService(repo, nil)

		_, err := s.Overview(ctx, aggregator.RangeAll)

		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestBuildOverview(t *testing.T) {
	ds := feedback.Dataset{
		Records:    sampleRecords(),
		Statistics: []feedback.Mention{{Category: "delays", TotalMentions: 2}, {Category: "positive", TotalMentions: 4}},
	}

	t.Run("all range checks payload statistics", func(t *testing.T) {
		o, err := BuildOverview(ds, aggregator.RangeAll, insights.DefaultConfig(), nil)

		require.NoError(t, err)
		assert.Equal(t, 3, o.Records)
		assert.Equal(t, 5, o.TotalMentions)
		assert.Equal(t, []feedback.Mismatch{{Category: feedback.Positive, Expected: 4, Computed: 1}}, o.Mismatches)
	})

	t.Run("relative range skips the check", func(t *testing.T) {
		o, err := BuildOverview(ds, aggregator.RangeLastMonth, insights.DefaultConfig(), nil)

		require.NoError(t, err)
		assert.Empty(t, o.Mismatches)
	})

	t.Run("fallback dataset has no data", func(t *testing.T) {
		_, err := BuildOverview(feedback.Dataset{Fallback: true}, aggregator.RangeAll, insights.DefaultConfig(), nil)

		assert.ErrorIs(t, err, ErrNoDataForRange)
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("stores records", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			InsertRecordsFunc: func(ctx context.Context, records []feedback.Record) (models.ImportResult, error) {
				assert.Len(t, records, 3)
				return models.ImportResult{BatchID: "b1", Inserted: 3, Tagged: 3}, nil
			},
		}
		s := newService(repo, nil)

		got, err := s.Import(ctx, sampleRecords())

		require.NoError(t, err)
		assert.Equal(t, ImportSummary{BatchID: "b1", Inserted: 3, Tagged: 3}, got)
	})

	t.Run("nothing to import", func(t *testing.T) {
		s := newService(&mocks.MockFeedbackRepository{}, nil)

		_, err := s.Import(ctx, nil)

		assert.ErrorIs(t, err, ErrNoFeedback)
	})

	t.Run("storage failure", func(t *testing.T) {
		s := newService(&mocks.MockFeedbackRepository{}, nil)

		_, err := s.Import(ctx, sampleRecords())

		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}
