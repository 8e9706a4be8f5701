package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/insights"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrNoFeedback     = errors.New("no feedback found")
	ErrNoDataForRange = errors.New("no data available for this time range")
	ErrStorageFailure = errors.New("storage failure")
)

// DashboardService serves the dashboard charts. Every call reads a fresh
// snapshot from storage; nothing is kept between calls.
type DashboardService struct {
	storage  FeedbackRepository
	builder  *charts.Builder
	insights insights.Config
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*DashboardService)

// WithClock sets the clock used for undated datasets.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewDashboardService creates a DashboardService. A nil renderer logs a
// summary of every chart.
func NewDashboardService(storage FeedbackRepository, renderer charts.Renderer, cfg insights.Config, logger *zap.Logger, opts ...Option) *DashboardService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	if renderer == nil {
		renderer = charts.NewLogRenderer(logger)
	}

	s := &DashboardService{
		storage:  storage,
		insights: cfg,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = charts.NewBuilder(renderer, logger, charts.WithClock(s.now))
	return s
}

// Import stores a batch of records.
func (s *DashboardService) Import(ctx context.Context, records []feedback.Record) (ImportSummary, error) {
	if len(records) == 0 {
		return ImportSummary{}, ErrNoFeedback
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := s.storage.InsertRecords(dbCtx, records)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("imported feedback",
		zap.String("batch_id", res.BatchID),
		zap.Int("inserted", res.Inserted),
		zap.Int("tagged", res.Tagged),
		zap.Int("undated", res.Undated))

	return ImportSummary{BatchID: res.BatchID, Inserted: res.Inserted, Tagged: res.Tagged, Undated: res.Undated}, nil
}

// Distribution returns the category share chart over all feedback.
func (s *DashboardService) Distribution(ctx context.Context) (charts.Chart, error) {
	return s.chart(ctx, func(records []feedback.Record) (charts.Chart, error) {
		return s.builder.Distribution(ctx, records)
	})
}

// PositiveBreakdown returns what positive feedback talks about.
func (s *DashboardService) PositiveBreakdown(ctx context.Context) (charts.Chart, error) {
	return s.chart(ctx, func(records []feedback.Record) (charts.Chart, error) {
		return s.builder.PositiveBreakdown(ctx, records)
	})
}

// Timeline returns monthly category counts within r.
func (s *DashboardService) Timeline(ctx context.Context, r aggregator.Range) (charts.Chart, error) {
	return s.chart(ctx, func(records []feedback.Record) (charts.Chart, error) {
		return s.builder.Timeline(ctx, records, r)
	})
}

// StackedArea returns the topic evolution within r.
func (s *DashboardService) StackedArea(ctx context.Context, r aggregator.Range) (charts.Chart, error) {
	return s.chart(ctx, func(records []feedback.Record) (charts.Chart, error) {
		return s.builder.StackedArea(ctx, records, r)
	})
}

// TopTopics returns categories ranked by mentions.
func (s *DashboardService) TopTopics(ctx context.Context) (charts.Chart, error) {
	return s.chart(ctx, func(records []feedback.Record) (charts.Chart, error) {
		return s.builder.TopTopics(ctx, records)
	})
}

// IssueTrend returns monthly issue counts within r with their trends.
func (s *DashboardService) IssueTrend(ctx context.Context, r aggregator.Range) (charts.Chart, error) {
	return s.chart(ctx, func(records []feedback.Record) (charts.Chart, error) {
		return s.builder.IssueTrend(ctx, records, r)
	})
}

// Overview summarises feedback within r. For RangeAll it also cross-checks the
// computed tally against the stored per-category totals.
func (s *DashboardService) Overview(ctx context.Context, r aggregator.Range) (Overview, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}

	out, tally, err := summarize(records, r, s.insights, s.now)
	if err != nil {
		return Overview{}, err
	}

	if out.Cutoff == nil {
		mismatches, err := s.crossCheck(ctx, tally)
		if err != nil {
			return Overview{}, err
		}
		out.Mismatches = mismatches
	}

	s.logger.Info("computed overview",
		zap.String("range", string(out.Range)),
		zap.Int("records", out.Records),
		zap.Int("mentions", out.TotalMentions),
		zap.Int("active_issues", len(out.ActiveIssues)),
		zap.Int("mismatches", len(out.Mismatches)))

	return out, nil
}

// BuildOverview summarises records held in memory, such as a decoded payload.
// For RangeAll the payload's own statistics are cross-checked.
func BuildOverview(ds feedback.Dataset, r aggregator.Range, cfg insights.Config, now func() time.Time) (Overview, error) {
	out, tally, err := summarize(ds.Records, r, cfg, now)
	if err != nil {
		return Overview{}, err
	}
	if out.Cutoff == nil && len(ds.Statistics) > 0 {
		out.Mismatches = ds.CrossCheck(tally)
	}
	return out, nil
}

func summarize(records []feedback.Record, r aggregator.Range, cfg insights.Config, now func() time.Time) (Overview, aggregator.Tally, error) {
	q := aggregator.NewQuery(records).WithRange(r).WithClock(now)
	w := q.Window()
	res := q.Flat()
	if res.Records == 0 {
		return Overview{}, nil, ErrNoDataForRange
	}

	pct := aggregator.Percentages(res.Tally)
	out := Overview{
		Range:         w.Range,
		Reference:     w.Reference,
		Cutoff:        w.Cutoff,
		Records:       res.Records,
		TotalMentions: res.Total,
		ActiveIssues:  insights.ActiveIssues(res.Tally, cfg),
		Sentiment:     insights.Sentiment(res.Tally, cfg.Sentiment),
	}
	for _, c := range res.Tally.Ordered() {
		out.Categories = append(out.Categories, CategoryShare{Category: c.Category, Count: c.Count, Percentage: pct[c.Category]})
	}
	return out, res.Tally, nil
}

func (s *DashboardService) crossCheck(ctx context.Context, tally aggregator.Tally) ([]feedback.Mismatch, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.CategoryMentions(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	stats := make([]feedback.Mention, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, feedback.Mention{Category: r.Category, TotalMentions: r.TotalMentions})
	}

	mismatches := feedback.CrossCheck(stats, tally)
	for _, m := range mismatches {
		s.logger.Warn("category total mismatch",
			zap.String("category", string(m.Category)),
			zap.Int("expected", m.Expected),
			zap.Int("computed", m.Computed))
	}
	return mismatches, nil
}

func (s *DashboardService) chart(ctx context.Context, build func([]feedback.Record) (charts.Chart, error)) (charts.Chart, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return charts.Chart{}, err
	}

	c, err := build(records)
	if err != nil {
		return charts.Chart{}, err
	}
	if c.NoData {
		return c, fmt.Errorf("%w: %s", ErrNoDataForRange, c.Message)
	}
	return c, nil
}

func (s *DashboardService) snapshot(ctx context.Context) ([]feedback.Record, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	records, err := s.storage.ListRecords(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(records) == 0 {
		return nil, ErrNoFeedback
	}
	return records, nil
}
