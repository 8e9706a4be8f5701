package feedback

import (
	"sort"
	"time"
)

// DateLayout is the wire and storage format of feedback dates.
const DateLayout = "2006-01-02"

// Record is one customer feedback entry. A zero Date means the entry is undated.
type Record struct {
	Date       time.Time
	Categories []string
	Subject    string
}

// HasDate reports whether the record carries a date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// HasCategory reports whether the record is tagged with c.
func (r Record) HasCategory(c Category) bool {
	for _, tag := range r.Categories {
		if tag == string(c) {
			return true
		}
	}
	return false
}

// Mention is a precomputed global tally row, as shipped in the payload statistics.
type Mention struct {
	Category      string
	TotalMentions int
}

// Dataset is a decoded record collection.
type Dataset struct {
	Records    []Record
	Statistics []Mention
	// Fallback is set when the payload was unusable and an empty dataset was substituted.
	Fallback bool
}

// Mismatch describes a category whose precomputed total disagrees with a computed one.
type Mismatch struct {
	Category Category `json:"category"`
	Expected int      `json:"expected"`
	Computed int      `json:"computed"`
}

// CrossCheck compares the dataset statistics with computed counts. Only known
// categories present in the statistics are compared.
func (d Dataset) CrossCheck(computed map[Category]int) []Mismatch {
	return CrossCheck(d.Statistics, computed)
}

// CrossCheck compares precomputed mentions with computed counts.
func CrossCheck(stats []Mention, computed map[Category]int) []Mismatch {
	var out []Mismatch
	for _, m := range stats {
		if !IsKnown(m.Category) {
			continue
		}
		c := Category(m.Category)
		if got := computed[c]; got != m.TotalMentions {
			out = append(out, Mismatch{Category: c, Expected: m.TotalMentions, Computed: got})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// ParseDate parses a feedback date. Anything that is not a calendar date yields
// the zero time, which callers treat as absent.
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
