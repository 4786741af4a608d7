package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/dto"
	"github.com/openacct/openacct/internal/utils/accounting"
)

// offsetService implements offset tracking for payable/receivable accounts.
// Originals sit on the account's normal side; offsets on the opposite side.
type offsetService struct {
	BaseService
	offsetRepo  portsrepo.OffsetRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewOffsetService creates a new OffsetService.
func NewOffsetService(offsetRepo portsrepo.OffsetRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, authorizer portssvc.AuthorizerSvc) portssvc.OffsetSvcFacade {
	return &offsetService{
		BaseService: BaseService{Authorizer: authorizer},
		offsetRepo:  offsetRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.OffsetSvcFacade = (*offsetService)(nil)

// UnmatchedOriginals returns the scope's originals whose net balance is still
// positive, in chronological order.
func (s *offsetService) UnmatchedOriginals(ctx context.Context, accountID, currencyCode string, requestingUserID string) ([]domain.OriginalStatus, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}
	account, err := s.offsetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.netBalances(ctx, account, currencyCode)
	if err != nil {
		return nil, err
	}
	return accounting.UnmatchedOriginals(statuses), nil
}

// ProposeMatches pairs unassigned offset candidates with equal-amount
// unmatched originals. Nothing is persisted.
func (s *offsetService) ProposeMatches(ctx context.Context, accountID, currencyCode string, requestingUserID string) (*domain.MatchProposal, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}
	account, err := s.offsetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.netBalances(ctx, account, currencyCode)
	if err != nil {
		return nil, err
	}
	unmatched := accounting.UnmatchedOriginals(statuses)

	offsetSide := account.AccountType.NormalBalance().Side().Opposite()
	candidates, err := s.offsetRepo.FindOffsetCandidates(ctx, accountID, currencyCode, offsetSide)
	if err != nil {
		s.LogError(ctx, err, "Failed to load offset candidates", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to load offset candidates: %w", err)
	}

	proposal := accounting.MatchOffsets(accountID, currencyCode, unmatched, candidates)
	return &proposal, nil
}

// ConfirmMatches re-validates each submitted pair against current data and
// applies the batch atomically. Returns the number of offsets written.
func (s *offsetService) ConfirmMatches(ctx context.Context, accountID, currencyCode string, req dto.ConfirmMatchesRequest, requestingUserID string) (int, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		s.LogWarn(ctx, "Authorization failed for ConfirmMatches", slog.String("user_id", requestingUserID))
		return 0, err
	}
	account, err := s.offsetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	statuses, err := s.netBalances(ctx, account, currencyCode)
	if err != nil {
		return 0, err
	}
	netByID := make(map[string]domain.OriginalStatus, len(statuses))
	for _, st := range statuses {
		netByID[st.Item.LineItemID] = st
	}

	lineItemIDs := make([]string, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		lineItemIDs = append(lineItemIDs, p.OffsetID)
	}
	offsetItems, err := s.offsetRepo.FindLineItemsByIDs(ctx, lineItemIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to load offset line items: %w", err)
	}

	pairs := make([]domain.MatchPair, 0, len(req.Pairs))
	usedOriginals := make(map[string]struct{}, len(req.Pairs))
	usedOffsets := make(map[string]struct{}, len(req.Pairs))
	for _, p := range req.Pairs {
		status, ok := netByID[p.OriginalID]
		if !ok {
			return 0, fmt.Errorf("%w: original %s not found in scope", apperrors.ErrNotFound, p.OriginalID)
		}
		if _, dup := usedOriginals[p.OriginalID]; dup {
			return 0, fmt.Errorf("%w: original %s appears twice", apperrors.ErrValidation, p.OriginalID)
		}
		offset, ok := offsetItems[p.OffsetID]
		if !ok {
			return 0, fmt.Errorf("%w: offset %s not found", apperrors.ErrNotFound, p.OffsetID)
		}
		if _, dup := usedOffsets[p.OffsetID]; dup {
			return 0, fmt.Errorf("%w: offset %s appears twice", apperrors.ErrValidation, p.OffsetID)
		}
		if offset.OriginalID != nil {
			return 0, fmt.Errorf("%w: line item %s is already assigned to an original", apperrors.ErrValidation, p.OffsetID)
		}
		if offset.AccountID != accountID || offset.CurrencyCode != currencyCode {
			return 0, fmt.Errorf("%w: line item %s is outside the requested scope", apperrors.ErrValidation, p.OffsetID)
		}
		if offset.Side != status.Item.Side.Opposite() {
			return 0, fmt.Errorf("%w: offset %s must sit on the opposite side of its original", apperrors.ErrValidation, p.OffsetID)
		}
		// Amounts may have shifted since the proposal; never let a
		// confirmation push a net balance negative.
		if offset.Amount.GreaterThan(status.Net) {
			return 0, fmt.Errorf("%w: offset %s exceeds the original's net balance %s",
				apperrors.ErrValidation, offset.Amount.String(), status.Net.String())
		}
		usedOriginals[p.OriginalID] = struct{}{}
		usedOffsets[p.OffsetID] = struct{}{}
		pairs = append(pairs, domain.MatchPair{Original: status.Item, Offset: offset})
	}

	now := time.Now().UTC()
	err = s.RetryOnConflict(ctx, func() error {
		return s.offsetRepo.ApplyMatches(ctx, pairs, requestingUserID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply matches", slog.String("account_id", accountID))
		return 0, fmt.Errorf("failed to apply matches: %w", err)
	}

	s.LogInfo(ctx, "Offset matches confirmed",
		slog.String("account_id", accountID),
		slog.String("currency_code", currencyCode),
		slog.Int("pairs", len(pairs)))
	return len(pairs), nil
}

// offsetAccount loads the account and verifies it tracks offsets.
func (s *offsetService) offsetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.NeedsOffset {
		return nil, fmt.Errorf("%w: account %s does not track offsets", apperrors.ErrValidation, account.Code)
	}
	return account, nil
}

// netBalances loads the scope's originals and offsets and folds them into
// per-original net balances.
func (s *offsetService) netBalances(ctx context.Context, account *domain.Account, currencyCode string) ([]domain.OriginalStatus, error) {
	originalSide := account.AccountType.NormalBalance().Side()
	originals, err := s.offsetRepo.FindOriginals(ctx, account.AccountID, currencyCode, originalSide)
	if err != nil {
		s.LogError(ctx, err, "Failed to load originals", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to load originals: %w", err)
	}
	offsets, err := s.offsetRepo.FindOffsets(ctx, account.AccountID, currencyCode)
	if err != nil {
		s.LogError(ctx, err, "Failed to load offsets", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to load offsets: %w", err)
	}
	return accounting.NetBalances(originals, offsets), nil
}
