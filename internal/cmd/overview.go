package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/insights"
	"github.com/godilite/feedback-insights/internal/service"
)

var severityColors = map[insights.Severity]lipgloss.Color{
	insights.SeverityCritical: lipgloss.Color("#e53935"),
	insights.SeverityHigh:     lipgloss.Color("#FF6B6B"),
	insights.SeverityMedium:   lipgloss.Color("#FFC107"),
	insights.SeverityLow:      lipgloss.Color("#87CEEB"),
}

// writeOverview prints the overview as styled tables. Styling is dropped when
// w is not a terminal.
func writeOverview(w io.Writer, o service.Overview) error {
	re := lipgloss.NewRenderer(w)
	title := re.NewStyle().Bold(true).MarginTop(1)
	muted := re.NewStyle().Faint(true)

	header := fmt.Sprintf("Overview (%s): %d records, %d mentions, reference %s",
		o.Range, o.Records, o.TotalMentions, o.Reference.Format("2006-01-02"))
	if o.Cutoff != nil {
		header += ", since " + o.Cutoff.Format("2006-01-02")
	}
	out := []string{title.Render(header)}

	shares := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(muted).
		Headers("Category", "Mentions", "Share").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := re.NewStyle().Padding(0, 1)
			if row >= 0 && col == 0 && row < len(o.Categories) {
				return s.Foreground(lipgloss.Color(charts.Color(o.Categories[row].Category)))
			}
			return s
		})
	for _, c := range o.Categories {
		shares.Row(c.Category.Title(), strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", c.Percentage))
	}
	out = append(out, shares.String())

	out = append(out, title.Render("Active issues"))
	if len(o.ActiveIssues) == 0 {
		out = append(out, muted.Render("none"))
	}
	for _, is := range o.ActiveIssues {
		badge := re.NewStyle().Bold(true).Foreground(severityColors[is.Severity]).Render(string(is.Severity))
		out = append(out, fmt.Sprintf("%-8s %s (%d)", badge, is.Category.Title(), is.Count))
	}

	out = append(out,
		title.Render("Sentiment"),
		fmt.Sprintf("negative %d (%.1f%%)  positive %d (%.1f%%)",
			o.Sentiment.Negative, o.Sentiment.NegativePercentage,
			o.Sentiment.Positive, o.Sentiment.PositivePercentage))

	for _, m := range o.Mismatches {
		out = append(out, muted.Render(fmt.Sprintf("expected total for %s is %d, computed %d", m.Category, m.Expected, m.Computed)))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, out...))
	return err
}
