package models

// ImportResult summarises one InsertRecords batch.
type ImportResult struct {
	BatchID  string
	Inserted int
	Tagged   int
	Undated  int
}

// CategoryMention is a SQL-computed per-category total.
type CategoryMention struct {
	Category      string
	TotalMentions int
}
