package charts

import (
	"context"
	"time"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/feedback"
)

// Kind identifies one dashboard chart.
type Kind string

const (
	KindDistribution      Kind = "distribution"
	KindPositiveBreakdown Kind = "positive_breakdown"
	KindTimeline          Kind = "timeline"
	KindStackedArea       Kind = "stacked_area"
	KindTopTopics         Kind = "top_topics"
	KindIssueTrend        Kind = "issue_trend"
)

const (
	noDataForRange = "No data available for this time range"
	noPositiveData = "No positive feedback data available"
)

// Chart is the render-ready series data of one chart.
type Chart struct {
	Kind      Kind             `json:"kind"`
	Title     string           `json:"title"`
	Range     aggregator.Range `json:"range"`
	Reference time.Time        `json:"reference"`
	Cutoff    *time.Time       `json:"cutoff,omitempty"`
	Labels    []string         `json:"labels"`
	Series    []Series         `json:"series"`
	// NoData marks the explicit empty outcome; Message says why.
	NoData     bool   `json:"no_data"`
	Message    string `json:"message,omitempty"`
	Total      int    `json:"total"`
	Considered int    `json:"considered"`
	Retained   int    `json:"retained"`
}

// Series is one dataset of a chart. Single-series charts (doughnuts, bars)
// carry one value per label; time series carry one value per month.
type Series struct {
	Name        string            `json:"name"`
	Category    feedback.Category `json:"category,omitempty"`
	Values      []int             `json:"values"`
	Percentages []float64         `json:"percentages,omitempty"`
	Trend       float64           `json:"trend"`
	Legend      string            `json:"legend,omitempty"`
	Color       string            `json:"color,omitempty"`
	Colors      []string          `json:"colors,omitempty"`
}

// Renderer is the charting capability the builders hand finished series to.
type Renderer interface {
	Render(ctx context.Context, c Chart) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, c Chart) error

func (f RendererFunc) Render(ctx context.Context, c Chart) error {
	return f(ctx, c)
}

var palette = map[feedback.Category]string{
	feedback.Service:        "#FF6B6B",
	feedback.Delays:         "#FFA07A",
	feedback.Infrastructure: "#FFD93D",
	feedback.User:           "#A8E6CF",
	feedback.Hygiene:        "#87CEEB",
	feedback.Comfort:        "#DDA0DD",
	feedback.Positive:       "#90EE90",
}

// Color returns the fixed dashboard colour of c.
func Color(c feedback.Category) string {
	return palette[c]
}
