package service

import (
	"time"

	"github.com/godilite/feedback-insights/internal/aggregator"
	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/insights"
)

type CategoryShare struct {
	Category   feedback.Category `json:"category"`
	Count      int               `json:"count"`
	Percentage float64           `json:"percentage"`
}

// Overview is the dashboard header: totals, shares, loud issues and the
// sentiment split for one time range.
type Overview struct {
	Range         aggregator.Range    `json:"range"`
	Reference     time.Time           `json:"reference"`
	Cutoff        *time.Time          `json:"cutoff,omitempty"`
	Records       int                 `json:"records"`
	TotalMentions int                 `json:"total_mentions"`
	Categories    []CategoryShare     `json:"categories"`
	ActiveIssues  []insights.Issue    `json:"active_issues"`
	Sentiment     insights.Split      `json:"sentiment"`
	Mismatches    []feedback.Mismatch `json:"mismatches,omitempty"`
}

type ImportSummary struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
	Tagged   int    `json:"tagged"`
	Undated  int    `json:"undated"`
}
