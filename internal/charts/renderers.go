package charts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/feedback"
)

// Collector keeps the last chart rendered per kind.
type Collector struct {
	mu     sync.RWMutex
	charts map[Kind]Chart
}

func NewCollector() *Collector {
	return &Collector{charts: make(map[Kind]Chart)}
}

func (c *Collector) Render(_ context.Context, chart Chart) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.charts[chart.Kind] = chart
	return nil
}

// Last returns the most recent chart of kind k.
func (c *Collector) Last(k Kind) (Chart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chart, ok := c.charts[k]
	return chart, ok
}

// LogRenderer writes a structured summary of every chart.
type LogRenderer struct {
	logger *zap.Logger
}

func NewLogRenderer(logger *zap.Logger) *LogRenderer {
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) Render(_ context.Context, c Chart) error {
	fields := []zap.Field{
		zap.String("kind", string(c.Kind)),
		zap.String("time_range", string(c.Range)),
		zap.Int("points", len(c.Labels)),
		zap.Int("series", len(c.Series)),
		zap.Int("filtered_entries", c.Retained),
		zap.Int("total_entries", c.Considered),
		zap.Int("total", c.Total),
	}
	if !c.Reference.IsZero() {
		fields = append(fields, zap.String("reference_date", c.Reference.Format(feedback.DateLayout)))
	}
	if c.Cutoff != nil {
		fields = append(fields, zap.String("cutoff_date", c.Cutoff.Format(feedback.DateLayout)))
	}
	if c.NoData {
		r.logger.Warn("no chart data", append(fields, zap.String("reason", c.Message))...)
		return nil
	}
	if len(c.Labels) > 0 {
		fields = append(fields, zap.String("date_range", c.Labels[0]+" to "+c.Labels[len(c.Labels)-1]))
	}
	r.logger.Info("chart generated", fields...)
	return nil
}

const barWidth = 30

// TextRenderer draws charts as plain-text bars, one block per chart.
type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(_ context.Context, c Chart) error {
	sep := strings.Repeat("─", 54)

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s", c.Title)
	if c.Range != "" {
		fmt.Fprintf(&b, " (%s)", c.Range)
	}
	fmt.Fprintf(&b, "\n  %s\n", sep)

	switch {
	case c.NoData:
		fmt.Fprintf(&b, "  %s\n", c.Message)
	case c.Kind == KindTimeline || c.Kind == KindStackedArea || c.Kind == KindIssueTrend:
		writeTimeSeries(&b, c)
	default:
		writeBars(&b, c)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func writeBars(b *strings.Builder, c Chart) {
	if len(c.Series) == 0 {
		return
	}
	s := c.Series[0]
	peak := maxOf(s.Values)
	for i, label := range c.Labels {
		v := s.Values[i]
		pct := 0.0
		if i < len(s.Percentages) {
			pct = s.Percentages[i]
		}
		fmt.Fprintf(b, "  %-16s %-*s %5d %5.1f%%\n", label, barWidth, bar(v, peak), v, pct)
	}
	fmt.Fprintf(b, "  %-16s %*s %5d\n", "Total", barWidth, "", c.Total)
}

func writeTimeSeries(b *strings.Builder, c Chart) {
	fmt.Fprintf(b, "  %-24s", "")
	for _, label := range c.Labels {
		fmt.Fprintf(b, " %8s", label)
	}
	b.WriteString("\n")
	for _, s := range c.Series {
		name := s.Name
		if s.Legend != "" {
			name = s.Legend
		}
		fmt.Fprintf(b, "  %-24s", name)
		for _, v := range s.Values {
			fmt.Fprintf(b, " %8d", v)
		}
		b.WriteString("\n")
	}
}

func bar(v, peak int) string {
	if peak == 0 {
		return ""
	}
	return strings.Repeat("█", v*barWidth/peak)
}

func maxOf(values []int) int {
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Multi fans a chart out to several renderers, stopping at the first error.
type Multi []Renderer

func (m Multi) Render(ctx context.Context, c Chart) error {
	for _, r := range m {
		if err := r.Render(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
