package aggregator

import (
	"math"

	"github.com/godilite/feedback-insights/internal/feedback"
)

// Tally maps every vocabulary category to its count. It always covers the
// whole vocabulary, zero-initialised.
type Tally map[feedback.Category]int

// Count is one (category, count) pair of an ordered tally.
type Count struct {
	Category feedback.Category
	Count    int
}

// NewTally returns a zero tally over the vocabulary.
func NewTally() Tally {
	vocab := feedback.Vocabulary()
	t := make(Tally, len(vocab))
	for _, c := range vocab {
		t[c] = 0
	}
	return t
}

// addTags counts each distinct known tag once. Tags form a set per record, so
// a duplicated tag does not count twice; unknown tags are skipped.
func (t Tally) addTags(tags []string) {
	seen := make(map[feedback.Category]struct{}, len(tags))
	for _, tag := range tags {
		c := feedback.Category(tag)
		if _, known := t[c]; !known {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		t[c]++
	}
}

// Get returns the count for c, zero for unknown categories.
func (t Tally) Get(c feedback.Category) int {
	return t[c]
}

// Total is the sum over all categories.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Ordered lists the counts in vocabulary order.
func (t Tally) Ordered() []Count {
	vocab := feedback.Vocabulary()
	out := make([]Count, 0, len(vocab))
	for _, c := range vocab {
		out = append(out, Count{Category: c, Count: t[c]})
	}
	return out
}

// Percentages returns each category's share of the tally total, rounded to one
// decimal place. A zero total reports 0.0 for every category.
func Percentages(t Tally) map[feedback.Category]float64 {
	total := t.Total()
	out := make(map[feedback.Category]float64, len(t))
	for _, c := range feedback.Vocabulary() {
		out[c] = Percent(t[c], total)
	}
	return out
}

// Percent is part/total*100 rounded to one decimal place, 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
