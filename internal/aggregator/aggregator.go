package aggregator

import (
	"sort"
	"time"

	"github.com/godilite/feedback-insights/internal/feedback"
)

const (
	monthKeyLayout = "2006-01"
	trendWindow    = 6
)

// CategoryResult is a flat (non-bucketed) aggregation.
type CategoryResult struct {
	Tally Tally
	// Total is the sum of all tally values.
	Total int
	// Records is how many records passed the filters.
	Records int
}

// MonthBucket holds the tally of one calendar month, keyed "YYYY-MM".
type MonthBucket struct {
	Key   string
	Tally Tally
}

// Monthly is the result of month bucketing.
type Monthly struct {
	Buckets   []MonthBucket
	Range     Range
	Reference time.Time
	Cutoff    *time.Time
	// Considered counts every input record, Retained the ones that were bucketed.
	Considered int
	Retained   int
}

// Empty reports the "no data for this range" outcome: no bucket survived filtering.
func (m Monthly) Empty() bool {
	return len(m.Buckets) == 0
}

// Keys returns the bucket keys in ascending order.
func (m Monthly) Keys() []string {
	keys := make([]string, len(m.Buckets))
	for i, b := range m.Buckets {
		keys[i] = b.Key
	}
	return keys
}

// Series returns c's count per bucket, in bucket order.
func (m Monthly) Series(c feedback.Category) []int {
	out := make([]int, len(m.Buckets))
	for i, b := range m.Buckets {
		out[i] = b.Tally[c]
	}
	return out
}

// Totals sums every bucket into a single tally.
func (m Monthly) Totals() Tally {
	t := NewTally()
	for _, b := range m.Buckets {
		for c, n := range b.Tally {
			t[c] += n
		}
	}
	return t
}

type categoryOptions struct {
	requireDated bool
	since        *time.Time
	where        func(feedback.Record) bool
}

// CategoryOption tunes ByCategory.
type CategoryOption func(*categoryOptions)

// RequireDated drops records without a date or without any category, the same
// admission rule as the time-bucketed views.
func RequireDated() CategoryOption {
	return func(o *categoryOptions) { o.requireDated = true }
}

// Since drops records dated before cutoff. Undated records cannot be placed
// against a cutoff and are dropped too.
func Since(cutoff time.Time) CategoryOption {
	return func(o *categoryOptions) { o.since = &cutoff }
}

// Where keeps only records matching pred.
func Where(pred func(feedback.Record) bool) CategoryOption {
	return func(o *categoryOptions) { o.where = pred }
}

// ByCategory tallies the known categories of every admitted record.
func ByCategory(records []feedback.Record, opts ...CategoryOption) CategoryResult {
	var o categoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	res := CategoryResult{Tally: NewTally()}
	for _, r := range records {
		if o.requireDated && !bucketable(r) {
			continue
		}
		if o.since != nil && (!r.HasDate() || r.Date.Before(*o.since)) {
			continue
		}
		if o.where != nil && !o.where(r) {
			continue
		}
		res.Records++
		res.Tally.addTags(r.Categories)
	}
	res.Total = res.Tally.Total()
	return res
}

// ByMonth buckets dated, categorised records by calendar month, discarding
// those before cutoff (a nil cutoff keeps everything). The boundary is
// inclusive. Buckets are created lazily and returned in ascending key order;
// zero-padded "YYYY-MM" keys sort chronologically as plain strings.
func ByMonth(records []feedback.Record, cutoff *time.Time) Monthly {
	index := make(map[string]Tally)
	res := Monthly{Considered: len(records), Cutoff: cutoff}

	for _, r := range records {
		if !bucketable(r) {
			continue
		}
		if cutoff != nil && r.Date.Before(*cutoff) {
			continue
		}
		key := MonthKey(r.Date)
		t, ok := index[key]
		if !ok {
			t = NewTally()
			index[key] = t
		}
		t.addTags(r.Categories)
		res.Retained++
	}

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res.Buckets = make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		res.Buckets = append(res.Buckets, MonthBucket{Key: k, Tally: index[k]})
	}
	return res
}

// Trend is the percentage change of c between the previous three and the
// recent three of the last six buckets. With fewer than six buckets, or a zero
// previous period, the trend is 0; growth from a zero base is not reported.
func Trend(buckets []MonthBucket, c feedback.Category) float64 {
	if len(buckets) < trendWindow {
		return 0
	}
	window := buckets[len(buckets)-trendWindow:]
	half := trendWindow / 2

	var previous, recent int
	for _, b := range window[:half] {
		previous += b.Tally[c]
	}
	for _, b := range window[half:] {
		recent += b.Tally[c]
	}

	if previous == 0 {
		return 0
	}
	return float64(recent-previous) / float64(previous) * 100
}

// MonthKey formats t as a bucket key.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// MonthLabel turns a bucket key into a legend label, "2024-01" -> "Jan 2024".
// Malformed keys are returned unchanged.
func MonthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

func bucketable(r feedback.Record) bool {
	return r.HasDate() && len(r.Categories) > 0
}
