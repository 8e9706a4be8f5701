package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/godilite/feedback-insights/internal/feedback"
	"github.com/godilite/feedback-insights/internal/repository/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL,
		feedback_date TEXT,
		subject TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS feedback_categories (
		feedback_id TEXT NOT NULL,
		category TEXT NOT NULL,
		PRIMARY KEY (feedback_id, category),
		FOREIGN KEY (feedback_id) REFERENCES feedback(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_date ON feedback(feedback_date);
	CREATE INDEX IF NOT EXISTS idx_feedback_categories_category ON feedback_categories(category);
`

type FeedbackRepository struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{
		db:    db,
		newID: func() string { return uuid.NewString() },
		now:   time.Now,
	}
}

// Migrate creates the feedback tables if they do not exist.
func (s *FeedbackRepository) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate feedback schema: %w", err)
	}
	return nil
}

// InsertRecords stores records as one batch inside a single transaction.
// Tags are stored verbatim, including ones outside the vocabulary; a tag
// repeated on one record is stored once.
func (s *FeedbackRepository) InsertRecords(ctx context.Context, records []feedback.Record) (models.ImportResult, error) {
	result := models.ImportResult{BatchID: s.newID()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("begin InsertRecords: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	recordStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feedback (id, batch_id, feedback_date, subject, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("prepare InsertRecords feedback: %w", err)
	}
	defer recordStmt.Close()

	tagStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO feedback_categories (feedback_id, category)
		VALUES (?, ?)
	`)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("prepare InsertRecords categories: %w", err)
	}
	defer tagStmt.Close()

	createdAt := s.now().UTC().Format(time.RFC3339)
	for _, r := range records {
		id := s.newID()

		var date sql.NullString
		if r.HasDate() {
			date = sql.NullString{String: r.Date.Format(feedback.DateLayout), Valid: true}
		} else {
			result.Undated++
		}

		if _, err := recordStmt.ExecContext(ctx, id, result.BatchID, date, r.Subject, createdAt); err != nil {
			return models.ImportResult{}, fmt.Errorf("insert feedback: %w", err)
		}
		for _, tag := range r.Categories {
			if _, err := tagStmt.ExecContext(ctx, id, tag); err != nil {
				return models.ImportResult{}, fmt.Errorf("insert feedback category: %w", err)
			}
		}
		if len(r.Categories) > 0 {
			result.Tagged++
		}
		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return models.ImportResult{}, fmt.Errorf("commit InsertRecords: %w", err)
	}
	return result, nil
}

// ListRecords returns every stored record in insertion order.
func (s *FeedbackRepository) ListRecords(ctx context.Context) ([]feedback.Record, error) {
	const query = `
		SELECT f.id, f.feedback_date, f.subject, c.category
		FROM feedback AS f
		LEFT JOIN feedback_categories AS c ON c.feedback_id = f.id
		ORDER BY f.rowid, c.rowid
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListRecords: %w", err)
	}
	defer rows.Close()

	var (
		records []feedback.Record
		lastID  string
	)
	for rows.Next() {
		var (
			id       string
			date     sql.NullString
			subject  string
			category sql.NullString
		)
		if err := rows.Scan(&id, &date, &subject, &category); err != nil {
			return nil, fmt.Errorf("scan ListRecords row: %w", err)
		}

		if id != lastID || len(records) == 0 {
			r := feedback.Record{Subject: subject}
			if date.Valid {
				r.Date = feedback.ParseDate(date.String)
			}
			records = append(records, r)
			lastID = id
		}
		if category.Valid {
			last := &records[len(records)-1]
			last.Categories = append(last.Categories, category.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListRecords: %w", err)
	}
	return records, nil
}

// CategoryMentions counts, per stored tag, the records carrying it.
func (s *FeedbackRepository) CategoryMentions(ctx context.Context) ([]models.CategoryMention, error) {
	const query = `
		SELECT category, COUNT(*) AS total_mentions
		FROM feedback_categories
		GROUP BY category
		ORDER BY total_mentions DESC, category
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query CategoryMentions: %w", err)
	}
	defer rows.Close()

	var results []models.CategoryMention
	for rows.Next() {
		var m models.CategoryMention
		if err := rows.Scan(&m.Category, &m.TotalMentions); err != nil {
			return nil, fmt.Errorf("scan CategoryMentions row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate CategoryMentions: %w", err)
	}
	return results, nil
}
