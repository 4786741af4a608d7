package repositories

import (
	"context"
	"time"

	"github.com/openacct/openacct/internal/core/domain"
)

// EntryRepositoryFacade defines the persistence operations for JournalEntries
// and their LineItems. Saving an entry persists its line items atomically and
// assigns the next free EntryNo for the entry's date inside the same
// transaction.
type EntryRepositoryFacade interface {
	// SaveEntry inserts the entry and its line items in one transaction and
	// returns the EntryNo assigned within the entry's date.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (int, error)
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLineItemByID(ctx context.Context, lineItemID string) (*domain.LineItem, error)
	FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.LineItem, error)
	FindLineItemsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.LineItem, error)
	// ListEntries returns entries within the period ordered by
	// (entry_date, entry_no), paginated by an opaque keyset token.
	ListEntries(ctx context.Context, period domain.Period, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	// UpdateEntry rewrites the entry header and replaces its line items.
	// When the date changes the entry is appended to the new date's sequence;
	// the old date is left with a detectable order hole.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error
	// DeleteEntry removes the entry and its line items. The date's ordinal
	// sequence is left with a hole until resequenced.
	DeleteEntry(ctx context.Context, entryID string) error

	// ListEntryOrdinals returns entry id -> EntryNo for all entries on a date.
	ListEntryOrdinals(ctx context.Context, date time.Time) (map[string]int, error)
	// UpdateEntryOrdinals rewrites EntryNo for a date's entries in one
	// transaction. Conflicting concurrent writes surface as apperrors.ErrConflict.
	UpdateEntryOrdinals(ctx context.Context, date time.Time, ordinals map[string]int, userID string, now time.Time) error
	// ListEntryOrdinalsByPeriod returns date -> ordinals for hole detection.
	ListEntryOrdinalsByPeriod(ctx context.Context, period domain.Period) (map[time.Time][]int, error)

	// ListLineItemOrdinals returns line item id -> LineNo for one side of an entry.
	ListLineItemOrdinals(ctx context.Context, entryID string, side domain.EntrySide) (map[string]int, error)
	UpdateLineItemOrdinals(ctx context.Context, entryID string, side domain.EntrySide, ordinals map[string]int, userID string, now time.Time) error
}
