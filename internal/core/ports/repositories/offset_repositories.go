package repositories

import (
	"context"
	"time"

	"github.com/openacct/openacct/internal/core/domain"
)

// OffsetRepositoryFacade defines the queries and writes backing offset
// tracking for payable/receivable accounts.
type OffsetRepositoryFacade interface {
	// FindOriginals returns line items on the given side of the scope that
	// are not themselves offsets of something else (original candidates).
	FindOriginals(ctx context.Context, accountID, currencyCode string, side domain.EntrySide) ([]domain.LineItem, error)
	// FindOffsets returns line items in scope whose OriginalID is set.
	FindOffsets(ctx context.Context, accountID, currencyCode string) ([]domain.LineItem, error)
	// FindOffsetCandidates returns line items on the offsetting side of the
	// scope with no original reference assigned yet.
	FindOffsetCandidates(ctx context.Context, accountID, currencyCode string, side domain.EntrySide) ([]domain.LineItem, error)
	FindLineItemsByIDs(ctx context.Context, lineItemIDs []string) (map[string]domain.LineItem, error)
	// ApplyMatches writes the original reference onto each matched offset in a
	// single transaction. Partial application never survives a failure.
	// Concurrent write conflicts surface as apperrors.ErrConflict.
	ApplyMatches(ctx context.Context, pairs []domain.MatchPair, userID string, now time.Time) error
}
