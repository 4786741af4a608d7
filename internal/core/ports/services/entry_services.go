package services

import (
	"context"
	"time"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/dto"
)

// EntrySvcFacade defines journal entry operations, including the ordinal
// maintenance required to keep same-day entries gap-free.
type EntrySvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error

	// ReorderEntries rewrites the EntryNo sequence of a date to the requested
	// order. The order must be a permutation of the date's entries.
	ReorderEntries(ctx context.Context, date time.Time, orderedEntryIDs []string, requestingUserID string) error
	// ReorderLineItems rewrites the LineNo sequence of one side of an entry.
	ReorderLineItems(ctx context.Context, entryID string, side domain.EntrySide, orderedLineItemIDs []string, requestingUserID string) error
	// FindOrderHoles returns the dates within the period whose entry ordinals
	// are not a contiguous 1..N sequence.
	FindOrderHoles(ctx context.Context, period domain.Period, requestingUserID string) ([]time.Time, error)
}
