package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/godilite/feedback-insights/internal/feedback"
)

// Range selects a rolling window relative to the dataset's reference date.
type Range string

const (
	RangeAll         Range = "all"
	RangeLastMonth   Range = "lastMonth"
	RangeLastQuarter Range = "lastQuarter"
	RangeLast6Months Range = "last6Months"
	RangeLastYear    Range = "lastYear"
)

// ErrUnknownRange is returned by ParseRange for unsupported selectors.
var ErrUnknownRange = errors.New("unknown time range")

// ParseRange accepts the canonical selector names plus the short dashboard
// aliases ("month", "quarter", "6months", "year"). Empty means RangeAll.
func ParseRange(s string) (Range, error) {
	switch s {
	case "", "all":
		return RangeAll, nil
	case "lastMonth", "month":
		return RangeLastMonth, nil
	case "lastQuarter", "quarter":
		return RangeLastQuarter, nil
	case "last6Months", "6months":
		return RangeLast6Months, nil
	case "lastYear", "year":
		return RangeLastYear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

// ReferenceDate is the latest record date, or now() when no record is dated.
// Relative ranges anchor on it so they follow the dataset's own timeline.
func ReferenceDate(records []feedback.Record, now func() time.Time) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.HasDate() && r.Date.After(latest) {
			latest = r.Date
		}
	}
	if latest.IsZero() {
		if now == nil {
			now = time.Now
		}
		return now()
	}
	return latest
}

// Cutoff maps a range to the earliest admitted date. The bool is false for
// RangeAll (and anything unrecognised), meaning no filtering. Month and year
// subtraction follows time.AddDate, which normalises overflowing days.
func Cutoff(reference time.Time, r Range) (time.Time, bool) {
	switch r {
	case RangeLastMonth:
		return reference.AddDate(0, -1, 0), true
	case RangeLastQuarter:
		return reference.AddDate(0, -3, 0), true
	case RangeLast6Months:
		return reference.AddDate(0, -6, 0), true
	case RangeLastYear:
		return reference.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}
