package domain

import "time"

// JournalEntry represents a date-stamped, balanced financial event composed of
// one or more line items. Entries sharing the same date are ordered by EntryNo,
// which forms a contiguous 1..N sequence per date.
type JournalEntry struct {
	EntryID   string     `json:"entryID"`   // Primary Key (UUID)
	EntryDate time.Time  `json:"entryDate"` // Date the event occurred (date precision)
	EntryNo   int        `json:"entryNo"`   // Ordinal within EntryDate, 1-based
	Note      string     `json:"note"`      // Nullable user note
	LineItems []LineItem `json:"lineItems,omitempty"`
	AuditFields
}
