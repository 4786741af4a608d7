package services

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/dto"
)

// OffsetSvcFacade defines offset tracking and reconciliation for
// payable/receivable accounts.
type OffsetSvcFacade interface {
	// UnmatchedOriginals returns the originals of the scope that are not yet
	// fully offset, annotated with their net balances.
	UnmatchedOriginals(ctx context.Context, accountID, currencyCode string, requestingUserID string) ([]domain.OriginalStatus, error)
	// ProposeMatches pairs unmatched offset candidates with equal-amount
	// unmatched originals. Pure computation; nothing is persisted.
	ProposeMatches(ctx context.Context, accountID, currencyCode string, requestingUserID string) (*domain.MatchProposal, error)
	// ConfirmMatches validates and applies a batch of proposed pairs
	// atomically, returning the number of offsets written.
	ConfirmMatches(ctx context.Context, accountID, currencyCode string, req dto.ConfirmMatchesRequest, requestingUserID string) (int, error)
}
