package insights

import (
	"sort"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/feedback"
)

// Issue is an issue category loud enough to be reported.
type Issue struct {
	Category feedback.Category `json:"category"`
	Count    int               `json:"count"`
	Severity Severity          `json:"severity"`
}

// Split is the negative/positive share of mentions.
type Split struct {
	Negative           int     `json:"negative"`
	Positive           int     `json:"positive"`
	NegativePercentage float64 `json:"negative_percentage"`
	PositivePercentage float64 `json:"positive_percentage"`
}

// Classify maps a count to the severity of the highest level it exceeds.
// Levels must be sorted from the highest threshold down, as Validate leaves them.
func (c Config) Classify(count int) Severity {
	for _, l := range c.Levels {
		if count > l.Above {
			return l.Severity
		}
	}
	return SeverityNone
}

// ActiveIssues lists the issue categories whose count exceeds some level,
// loudest first. Ties keep vocabulary order.
func ActiveIssues(t aggregator.Tally, cfg Config) []Issue {
	issues := make([]Issue, 0)
	for _, c := range feedback.IssueCategories() {
		n := t.Get(c)
		sev := cfg.Classify(n)
		if sev == SeverityNone {
			continue
		}
		issues = append(issues, Issue{Category: c, Count: n, Severity: sev})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Count > issues[j].Count })
	return issues
}

// Sentiment splits mentions into the configured groups. Categories in
// neither group are left out of both counts.
func Sentiment(t aggregator.Tally, groups SentimentGroups) Split {
	var s Split
	for _, c := range groups.Negative {
		s.Negative += t.Get(c)
	}
	for _, c := range groups.Positive {
		s.Positive += t.Get(c)
	}
	total := s.Negative + s.Positive
	s.NegativePercentage = aggregator.Percent(s.Negative, total)
	s.PositivePercentage = aggregator.Percent(s.Positive, total)
	return s
}
