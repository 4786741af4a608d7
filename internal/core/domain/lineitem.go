package domain

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

// Opposite returns the other side.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// LineItem represents a single debit or credit leg within a journal entry,
// affecting one account in one currency. OriginalID, when set, references the
// line item this one offsets; it is only valid against accounts flagged
// NeedsOffset.
type LineItem struct {
	LineItemID   string          `json:"lineItemID"`   // Primary Key (UUID)
	EntryID      string          `json:"entryID"`      // FK -> JournalEntry (Not Null)
	AccountID    string          `json:"accountID"`    // FK -> Account (Not Null)
	CurrencyCode string          `json:"currencyCode"` // FK -> Currency (Not Null)
	Side         EntrySide       `json:"side"`         // DEBIT or CREDIT
	Amount       decimal.Decimal `json:"amount"`       // Positive value
	Description  string          `json:"description"`  // Nullable
	LineNo       int             `json:"lineNo"`       // Ordinal within the entry's side group, 1-based
	OriginalID   *string         `json:"originalID,omitempty"`
	AuditFields

	// Read-side annotations populated by queries, never persisted directly.
	EntryDate   time.Time       `json:"entryDate,omitempty"`
	EntryNo     int             `json:"entryNo,omitempty"`
	AccountCode string          `json:"accountCode,omitempty"`
	Balance     decimal.Decimal `json:"balance,omitempty"` // Running balance after this item
}

// SignedAmount returns the item's contribution to a balance under the given
// normal-balance convention: the normal side adds, the opposite side subtracts.
func (li LineItem) SignedAmount(normal NormalBalance) decimal.Decimal {
	if (li.Side == Debit) == (normal == DebitNormal) {
		return li.Amount
	}
	return li.Amount.Neg()
}
