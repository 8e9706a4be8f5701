package aggregator

import (
	"time"

	"github.com/godilite/feedback-insights/internal/feedback"
)

// Window is a resolved time range.
type Window struct {
	Range     Range
	Reference time.Time
	Cutoff    *time.Time
}

// Query is the single parameterised entry point used by every chart: it
// resolves the range against the records' reference date, then runs the flat
// or monthly aggregation. A Query holds no state beyond its configuration.
type Query struct {
	records []feedback.Record
	rng     Range
	now     func() time.Time
	where   func(feedback.Record) bool
}

// NewQuery starts a query over records with RangeAll.
func NewQuery(records []feedback.Record) *Query {
	return &Query{records: records, rng: RangeAll, now: time.Now}
}

// WithRange sets the time range selector.
func (q *Query) WithRange(r Range) *Query {
	if r == "" {
		r = RangeAll
	}
	q.rng = r
	return q
}

// WithClock overrides the wall clock used when no record is dated.
func (q *Query) WithClock(now func() time.Time) *Query {
	if now != nil {
		q.now = now
	}
	return q
}

// Where restricts the query to records matching pred.
func (q *Query) Where(pred func(feedback.Record) bool) *Query {
	q.where = pred
	return q
}

// Window resolves the reference date and cutoff.
func (q *Query) Window() Window {
	w := Window{Range: q.rng, Reference: ReferenceDate(q.records, q.now)}
	if cutoff, ok := Cutoff(w.Reference, q.rng); ok {
		w.Cutoff = &cutoff
	}
	return w
}

// Monthly runs the month bucketing.
func (q *Query) Monthly() Monthly {
	w := q.Window()
	m := ByMonth(q.filtered(), w.Cutoff)
	m.Considered = len(q.records)
	m.Range = w.Range
	m.Reference = w.Reference
	return m
}

// Flat runs the flat tally. With RangeAll no date is required; any other range
// drops records before the cutoff.
func (q *Query) Flat() CategoryResult {
	w := q.Window()
	var opts []CategoryOption
	if w.Cutoff != nil {
		opts = append(opts, Since(*w.Cutoff))
	}
	if q.where != nil {
		opts = append(opts, Where(q.where))
	}
	return ByCategory(q.records, opts...)
}

func (q *Query) filtered() []feedback.Record {
	if q.where == nil {
		return q.records
	}
	out := make([]feedback.Record, 0, len(q.records))
	for _, r := range q.records {
		if q.where(r) {
			out = append(out, r)
		}
	}
	return out
}
