package charts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/feedback"
)

// ErrRender wraps renderer failures.
var ErrRender = errors.New("render failed")

// Builder turns a record snapshot into charts and hands each one to a Renderer.
// It keeps no dataset between calls.
type Builder struct {
	renderer Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used as reference date for undated datasets.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder. It panics on a nil renderer.
func NewBuilder(renderer Renderer, logger *zap.Logger, opts ...Option) *Builder {
	if renderer == nil {
		panic("renderer must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	b := &Builder{renderer: renderer, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Distribution is the category share doughnut over the whole dataset.
func (b *Builder) Distribution(ctx context.Context, records []feedback.Record) (Chart, error) {
	res := b.query(records, aggregator.RangeAll).Flat()

	c := Chart{
		Kind:       KindDistribution,
		Title:      "Category Distribution",
		Range:      aggregator.RangeAll,
		Total:      res.Total,
		Considered: len(records),
		Retained:   res.Records,
	}
	s := Series{Name: c.Title}
	for _, cnt := range res.Tally.Ordered() {
		c.Labels = append(c.Labels, cnt.Category.Title())
		s.Values = append(s.Values, cnt.Count)
		s.Percentages = append(s.Percentages, aggregator.Percent(cnt.Count, res.Total))
		s.Colors = append(s.Colors, Color(cnt.Category))
	}
	c.Series = []Series{s}

	return c, b.render(ctx, c)
}

// PositiveBreakdown tallies, among positive feedback, which other categories
// the praise was about. Categories are sorted by count, most mentioned first.
func (b *Builder) PositiveBreakdown(ctx context.Context, records []feedback.Record) (Chart, error) {
	res := b.query(records, aggregator.RangeAll).
		Where(func(r feedback.Record) bool { return r.HasCategory(feedback.Positive) }).
		Flat()

	c := Chart{
		Kind:       KindPositiveBreakdown,
		Title:      "Positive Feedback Distribution",
		Range:      aggregator.RangeAll,
		Considered: len(records),
		Retained:   res.Records,
	}

	var counts []aggregator.Count
	for _, cnt := range res.Tally.Ordered() {
		if cnt.Category == feedback.Positive || cnt.Count == 0 {
			continue
		}
		counts = append(counts, cnt)
		c.Total += cnt.Count
	}
	sortByCount(counts)

	if len(counts) == 0 {
		c.NoData = true
		c.Message = noPositiveData
		return c, b.render(ctx, c)
	}

	s := Series{Name: c.Title}
	for _, cnt := range counts {
		c.Labels = append(c.Labels, cnt.Category.Title())
		s.Values = append(s.Values, cnt.Count)
		s.Percentages = append(s.Percentages, aggregator.Percent(cnt.Count, c.Total))
		s.Colors = append(s.Colors, Color(cnt.Category))
	}
	c.Series = []Series{s}

	return c, b.render(ctx, c)
}

// Timeline is the per-category monthly line chart.
func (b *Builder) Timeline(ctx context.Context, records []feedback.Record, r aggregator.Range) (Chart, error) {
	return b.monthly(ctx, KindTimeline, "Feedback Timeline", records, r, feedback.Vocabulary(), "")
}

// StackedArea is the topic evolution chart: the same monthly series, stacked.
func (b *Builder) StackedArea(ctx context.Context, records []feedback.Record, r aggregator.Range) (Chart, error) {
	return b.monthly(ctx, KindStackedArea, "Topic Evolution", records, r, feedback.Vocabulary(), "")
}

// TopTopics is the horizontal bar ranking of categories by mentions.
// Ties keep vocabulary order.
func (b *Builder) TopTopics(ctx context.Context, records []feedback.Record) (Chart, error) {
	res := b.query(records, aggregator.RangeAll).Flat()
	counts := res.Tally.Ordered()
	sortByCount(counts)

	c := Chart{
		Kind:       KindTopTopics,
		Title:      "Top Topics",
		Range:      aggregator.RangeAll,
		Total:      res.Total,
		Considered: len(records),
		Retained:   res.Records,
	}
	s := Series{Name: "Number of Reports"}
	for _, cnt := range counts {
		c.Labels = append(c.Labels, cnt.Category.Title())
		s.Values = append(s.Values, cnt.Count)
		s.Percentages = append(s.Percentages, aggregator.Percent(cnt.Count, res.Total))
		s.Colors = append(s.Colors, Color(cnt.Category))
	}
	c.Series = []Series{s}

	return c, b.render(ctx, c)
}

// IssueTrend plots the issue categories per month with their three-month
// trend. Series are ordered by trend, fastest growing first.
func (b *Builder) IssueTrend(ctx context.Context, records []feedback.Record, r aggregator.Range) (Chart, error) {
	return b.monthly(ctx, KindIssueTrend, "Issues Trend", records, r, feedback.IssueCategories(), " Issues")
}

func (b *Builder) monthly(ctx context.Context, kind Kind, title string, records []feedback.Record, r aggregator.Range, categories []feedback.Category, suffix string) (Chart, error) {
	m := b.query(records, r).Monthly()

	c := Chart{
		Kind:       kind,
		Title:      title,
		Range:      m.Range,
		Reference:  m.Reference,
		Cutoff:     m.Cutoff,
		Considered: m.Considered,
		Retained:   m.Retained,
	}

	if m.Empty() {
		c.NoData = true
		c.Message = noDataForRange
		return c, b.render(ctx, c)
	}

	for _, key := range m.Keys() {
		c.Labels = append(c.Labels, aggregator.MonthLabel(key))
	}
	for _, cat := range categories {
		s := Series{
			Name:     cat.Title() + suffix,
			Category: cat,
			Values:   m.Series(cat),
			Color:    Color(cat),
		}
		if kind == KindIssueTrend {
			s.Trend = aggregator.Trend(m.Buckets, cat)
			s.Legend = s.Name + trendSuffix(s.Trend)
		}
		for _, v := range s.Values {
			c.Total += v
		}
		c.Series = append(c.Series, s)
	}
	if kind == KindIssueTrend {
		sort.SliceStable(c.Series, func(i, j int) bool { return c.Series[i].Trend > c.Series[j].Trend })
	}

	return c, b.render(ctx, c)
}

func (b *Builder) query(records []feedback.Record, r aggregator.Range) *aggregator.Query {
	return aggregator.NewQuery(records).WithRange(r).WithClock(b.now)
}

func (b *Builder) render(ctx context.Context, c Chart) error {
	if err := b.renderer.Render(ctx, c); err != nil {
		b.logger.Error("chart render failed", zap.String("kind", string(c.Kind)), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrRender, c.Kind, err)
	}
	return nil
}

// trendSuffix formats a trend for a legend, e.g. " ↑ (+12%)".
func trendSuffix(trend float64) string {
	pct := math.Abs(trend)
	switch {
	case trend > 0:
		return fmt.Sprintf(" ↑ (+%.0f%%)", pct)
	case trend < 0:
		return fmt.Sprintf(" ↓ (-%.0f%%)", pct)
	default:
		return " → (0%)"
	}
}

func sortByCount(counts []aggregator.Count) {
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
}
