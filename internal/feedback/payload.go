package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const statusSuccess = "success"

// ErrUnusable is returned when a payload cannot be turned into a record collection.
var ErrUnusable = errors.New("unusable feedback payload")

type payload struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data"`
	Statistics json.RawMessage `json:"statistics"`
}

type payloadEntry struct {
	Date               string   `json:"date"`
	DetectedCategories []string `json:"detected_categories"`
	Subject            string   `json:"subject"`
}

type payloadMention struct {
	Category      string `json:"category"`
	TotalMentions int    `json:"total_mentions"`
}

// Decode reads an analysis payload. A status other than "success" or a
// missing or malformed data array yields ErrUnusable.
func Decode(r io.Reader) (Dataset, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrUnusable, err)
	}
	if p.Status != statusSuccess {
		return Dataset{}, fmt.Errorf("%w: status %q", ErrUnusable, p.Status)
	}

	raw := bytes.TrimSpace(p.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Dataset{}, fmt.Errorf("%w: missing data array", ErrUnusable)
	}
	var entries []payloadEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return Dataset{}, fmt.Errorf("%w: malformed data array: %v", ErrUnusable, err)
	}

	ds := Dataset{Records: make([]Record, 0, len(entries))}
	for _, e := range entries {
		ds.Records = append(ds.Records, Record{
			Date:       ParseDate(e.Date),
			Categories: e.DetectedCategories,
			Subject:    e.Subject,
		})
	}

	// statistics are an optional cross-check; a broken block is dropped.
	var stats []payloadMention
	if len(p.Statistics) > 0 && json.Unmarshal(p.Statistics, &stats) == nil {
		for _, s := range stats {
			ds.Statistics = append(ds.Statistics, Mention(s))
		}
	}

	return ds, nil
}

// DecodeOrEmpty is Decode with the unusable-payload fallback applied: the
// caller always gets a dataset, empty and flagged when the payload was bad.
func DecodeOrEmpty(r io.Reader) (Dataset, error) {
	ds, err := Decode(r)
	if errors.Is(err, ErrUnusable) {
		return Dataset{Fallback: true}, err
	}
	return ds, err
}
