package feedback

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	subjectColumns = []string{"Asunto", "Subject", "Betreff", "Title", "Titulo", "Topic"}
	dateColumns    = []string{"Fecha", "Date", "Zeitstempel", "Time", "Timestamp", "Datum"}
	separators     = []rune{';', ',', '\t'}
)

// ErrNoSubjectColumn is returned when no subject column can be located in a CSV export.
var ErrNoSubjectColumn = errors.New("no subject column found")

// Tagger assigns category tags to a feedback subject.
type Tagger func(subject string) []string

// CSVOptions controls ReadCSV. Empty column names trigger auto-detection.
type CSVOptions struct {
	SubjectColumn string
	DateColumn    string
	Tagger        Tagger
}

// ReadCSV reads a raw feedback export. The separator is sniffed from ';', ','
// and tab; the first one producing more than one column wins, and an export
// with a lone subject column is read as is.
func ReadCSV(r io.Reader, opts CSVOptions) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	rows, err := sniffRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	subjectIdx := columnIndex(header, opts.SubjectColumn, subjectColumns)
	if subjectIdx < 0 {
		return nil, fmt.Errorf("%w: columns %v", ErrNoSubjectColumn, header)
	}
	dateIdx := columnIndex(header, opts.DateColumn, dateColumns)

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if subjectIdx >= len(row) {
			continue
		}
		rec := Record{Subject: strings.TrimSpace(row[subjectIdx])}
		if dateIdx >= 0 && dateIdx < len(row) {
			rec.Date = ParseDate(strings.TrimSpace(row[dateIdx]))
		}
		if opts.Tagger != nil {
			rec.Categories = opts.Tagger(rec.Subject)
		}
		records = append(records, rec)
	}
	return records, nil
}

// sniffRows parses data with the first separator that splits the header. A
// header no separator splits is read as a single column.
func sniffRows(data []byte) ([][]string, error) {
	var (
		lastErr      error
		singleColumn [][]string
	)
	for _, sep := range separators {
		cr := csv.NewReader(bytes.NewReader(data))
		cr.Comma = sep
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		rows, err := cr.ReadAll()
		if err != nil {
			lastErr = err
			continue
		}
		if len(rows) == 0 {
			return rows, nil
		}
		if len(rows[0]) > 1 {
			return rows, nil
		}
		if singleColumn == nil {
			singleColumn = rows
		}
	}
	if singleColumn != nil {
		return singleColumn, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("parse csv: %w", lastErr)
	}
	return nil, fmt.Errorf("parse csv: no supported separator")
}

func columnIndex(header []string, preferred string, candidates []string) int {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	if preferred != "" {
		if i := find(preferred); i >= 0 {
			return i
		}
	}
	for _, c := range candidates {
		if i := find(c); i >= 0 {
			return i
		}
	}
	return -1
}
