package feedback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary(t *testing.T) {
	t.Run("legend order", func(t *testing.T) {
		assert.Equal(t, []Category{Service, Delays, Infrastructure, User, Hygiene, Comfort, Positive}, Vocabulary())
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		v := Vocabulary()
		v[0] = "mutated"
		assert.Equal(t, Service, Vocabulary()[0])
	})

	t.Run("issue categories exclude positive", func(t *testing.T) {
		issues := IssueCategories()
		assert.Len(t, issues, 6)
		assert.NotContains(t, issues, Positive)
	})

	t.Run("known tags", func(t *testing.T) {
		assert.True(t, IsKnown("hygiene"))
		assert.False(t, IsKnown("sin_categoria"))
		assert.False(t, IsKnown("Hygiene"))
	})

	t.Run("title", func(t *testing.T) {
		assert.Equal(t, "Infrastructure", Infrastructure.Title())
		assert.Equal(t, "", Category("").Title())
	})
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ParseDate("2024-01-15"))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), ParseDate("2024-03-02T22:10:00Z"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("Fecha inválida").IsZero())
	assert.True(t, ParseDate("N/A").IsZero())
}

func TestDecode(t *testing.T) {
	t.Run("successful payload", func(t *testing.T) {
		body := `{
			"status": "success",
			"data": [
				{"date": "2024-01-15", "detected_categories": ["delays"], "subject": "Train late"},
				{"detected_categories": ["service", "sin_categoria"]},
				{"date": "N/A", "subject": "no tags"}
			],
			"statistics": [{"category": "delays", "total_mentions": 1}]
		}`

		ds, err := Decode(strings.NewReader(body))

		require.NoError(t, err)
		require.Len(t, ds.Records, 3)
		assert.False(t, ds.Fallback)
		assert.Equal(t, "Train late", ds.Records[0].Subject)
		assert.True(t, ds.Records[0].HasDate())
		assert.False(t, ds.Records[1].HasDate())
		assert.False(t, ds.Records[2].HasDate())
		assert.Nil(t, ds.Records[2].Categories)
		assert.Equal(t, []Mention{{Category: "delays", TotalMentions: 1}}, ds.Statistics)
	})

	t.Run("non-success status", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"status": "error", "data": []}`))
		assert.ErrorIs(t, err, ErrUnusable)
		assert.Contains(t, err.Error(), `status "error"`)
	})

	t.Run("missing data array", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"status": "success"}`))
		assert.ErrorIs(t, err, ErrUnusable)
	})

	t.Run("null data array", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"status": "success", "data": null}`))
		assert.ErrorIs(t, err, ErrUnusable)
	})

	t.Run("malformed data array", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"status": "success", "data": {"date": "2024-01-01"}}`))
		assert.ErrorIs(t, err, ErrUnusable)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{`))
		assert.ErrorIs(t, err, ErrUnusable)
	})

	t.Run("broken statistics are dropped", func(t *testing.T) {
		ds, err := Decode(strings.NewReader(`{"status": "success", "data": [], "statistics": "oops"}`))
		require.NoError(t, err)
		assert.Empty(t, ds.Records)
		assert.Nil(t, ds.Statistics)
	})
}

func TestDecodeOrEmpty(t *testing.T) {
	ds, err := DecodeOrEmpty(strings.NewReader(`{"status": "failed"}`))

	assert.ErrorIs(t, err, ErrUnusable)
	assert.True(t, ds.Fallback)
	assert.Empty(t, ds.Records)
}

func TestCrossCheck(t *testing.T) {
	ds := Dataset{Statistics: []Mention{
		{Category: "delays", TotalMentions: 2},
		{Category: "service", TotalMentions: 5},
		{Category: "sin_categoria", TotalMentions: 9},
	}}

	mismatches := ds.CrossCheck(map[Category]int{Delays: 2, Service: 4})

	assert.Equal(t, []Mismatch{{Category: Service, Expected: 5, Computed: 4}}, mismatches)
}

func TestRecordHasCategory(t *testing.T) {
	r := Record{Categories: []string{"positive", "service"}}
	assert.True(t, r.HasCategory(Positive))
	assert.False(t, r.HasCategory(Delays))
}

func TestReadCSV(t *testing.T) {
	tagger := func(subject string) []string {
		if strings.Contains(strings.ToLower(subject), "late") {
			return []string{"delays"}
		}
		return nil
	}

	t.Run("semicolon separated with auto-detected columns", func(t *testing.T) {
		input := "Fecha;Asunto;Contenido\n2024-01-15;Train late;long text\n2024-02-01;Nice staff;text\n"

		records, err := ReadCSV(strings.NewReader(input), CSVOptions{Tagger: tagger})

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Train late", records[0].Subject)
		assert.Equal(t, []string{"delays"}, records[0].Categories)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), records[1].Date)
		assert.Nil(t, records[1].Categories)
	})

	t.Run("comma separated with explicit columns", func(t *testing.T) {
		input := "when,what\n2024-03-01,late again\n"

		records, err := ReadCSV(strings.NewReader(input), CSVOptions{SubjectColumn: "what", DateColumn: "when", Tagger: tagger})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].HasDate())
		assert.Equal(t, []string{"delays"}, records[0].Categories)
	})

	t.Run("no date column leaves records undated", func(t *testing.T) {
		records, err := ReadCSV(strings.NewReader("Subject\tBody\nlate\tx\n"), CSVOptions{})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].HasDate())
	})

	t.Run("lone subject column", func(t *testing.T) {
		input := "Subject\ntrain was late\nseats dirty, again\n"

		records, err := ReadCSV(strings.NewReader(input), CSVOptions{Tagger: tagger})

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"delays"}, records[0].Categories)
		assert.Equal(t, "seats dirty, again", records[1].Subject)
		assert.False(t, records[1].HasDate())
	})

	t.Run("lone column that is not a subject", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("Body\nlate\n"), CSVOptions{})
		assert.ErrorIs(t, err, ErrNoSubjectColumn)
	})

	t.Run("missing subject column", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("a;b\n1;2\n"), CSVOptions{})
		assert.ErrorIs(t, err, ErrNoSubjectColumn)
	})
}
