package models

import "time"

// JournalEntry represents a row of the journal_entries table. EntryNo is the
// 1-based ordinal of the entry within its date.
type JournalEntry struct {
	EntryID   string    `db:"entry_id"`
	EntryDate time.Time `db:"entry_date"`
	EntryNo   int       `db:"entry_no"`
	Note      string    `db:"note"`
	AuditFields
}
