package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a line item is a Debit or a Credit leg.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// LineItem represents a row of the line_items table. OriginalID, when set,
// references the line item this one offsets.
type LineItem struct {
	LineItemID   string          `db:"line_item_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	CurrencyCode string          `db:"currency_code"`
	Side         EntrySide       `db:"side"`
	Amount       decimal.Decimal `db:"amount"`
	Description  string          `db:"description"`
	LineNo       int             `db:"line_no"`
	OriginalID   *string         `db:"original_id"`
	AuditFields

	// Joined columns populated by read queries.
	EntryDate   time.Time `db:"entry_date"`
	EntryNo     int       `db:"entry_no"`
	AccountCode string    `db:"account_code"`
}
