package aggregator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/feedback-insights/internal/feedback"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want Range
	}{
		{"", RangeAll},
		{"all", RangeAll},
		{"lastMonth", RangeLastMonth},
		{"month", RangeLastMonth},
		{"quarter", RangeLastQuarter},
		{"last6Months", RangeLast6Months},
		{"6months", RangeLast6Months},
		{"year", RangeLastYear},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseRange("fortnight")
	assert.ErrorIs(t, err, ErrUnknownRange)
}

func TestReferenceDate(t *testing.T) {
	now := time.Date(2030, 5, 5, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("latest record date", func(t *testing.T) {
		records := []feedback.Record{record("2024-01-15"), {}, record("2024-03-02"), record("2023-12-31")}
		assert.Equal(t, day("2024-03-02"), ReferenceDate(records, clock))
	})

	t.Run("falls back to now without dates", func(t *testing.T) {
		assert.Equal(t, now, ReferenceDate([]feedback.Record{{Subject: "x"}}, clock))
		assert.Equal(t, now, NewQuery(nil).WithClock(clock).Window().Reference)
	})
}

func TestCutoff(t *testing.T) {
	ref := day("2024-06-15")

	tests := []struct {
		r    Range
		want string
	}{
		{RangeLastMonth, "2024-05-15"},
		{RangeLastQuarter, "2024-03-15"},
		{RangeLast6Months, "2023-12-15"},
		{RangeLastYear, "2023-06-15"},
	}
	for _, tt := range tests {
		got, ok := Cutoff(ref, tt.r)
		require.True(t, ok, tt.r)
		assert.Equal(t, day(tt.want), got, tt.r)
	}

	_, ok := Cutoff(ref, RangeAll)
	assert.False(t, ok)

	t.Run("month end overflow follows AddDate", func(t *testing.T) {
		got, _ := Cutoff(day("2024-03-31"), RangeLastMonth)
		assert.Equal(t, day("2024-03-02"), got)
	})
}

func TestPercentages(t *testing.T) {
	t.Run("all zero tally", func(t *testing.T) {
		for c, p := range Percentages(NewTally()) {
			assert.Equal(t, 0.0, p, c)
			assert.False(t, math.IsNaN(p))
		}
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		tally := tallyOf(map[feedback.Category]int{feedback.Service: 1, feedback.Delays: 2})
		p := Percentages(tally)

		assert.Equal(t, 33.3, p[feedback.Service])
		assert.Equal(t, 66.7, p[feedback.Delays])
		assert.Equal(t, 0.0, p[feedback.Positive])
		assert.Len(t, p, len(feedback.Vocabulary()))
	})

	t.Run("percent helper", func(t *testing.T) {
		assert.Equal(t, 0.0, Percent(5, 0))
		assert.Equal(t, 12.5, Percent(1, 8))
	})
}

func TestTallyOrdered(t *testing.T) {
	tally := tallyOf(map[feedback.Category]int{feedback.Positive: 3, feedback.Service: 1})

	ordered := tally.Ordered()

	require.Len(t, ordered, 7)
	assert.Equal(t, Count{Category: feedback.Service, Count: 1}, ordered[0])
	assert.Equal(t, Count{Category: feedback.Positive, Count: 3}, ordered[6])
	assert.Equal(t, 3, tally.Get(feedback.Positive))
	assert.Zero(t, tally.Get("nope"))
}
