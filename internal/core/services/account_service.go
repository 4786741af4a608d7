package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, authorizer portssvc.AuthorizerSvc) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: BaseService{Authorizer: authorizer},
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account under its base category.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, domain.RoleEditor); err != nil {
		s.LogWarn(ctx, "Authorization failed for CreateAccount", slog.String("user_id", creatorUserID))
		return nil, err
	}

	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
	}

	no := req.No
	if no <= 0 {
		// Append after the last sibling under the same base.
		siblings, err := s.accountRepo.ListAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, acc := range siblings {
			if acc.BaseCode == req.BaseCode && acc.No >= no {
				no = acc.No + 1
			}
		}
		if no <= 0 {
			no = 1
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		BaseCode:    req.BaseCode,
		No:          no,
		Name:        req.Name,
		AccountType: req.AccountType,
		NeedsOffset: req.NeedsOffset,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs retrieves several accounts keyed by id.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts returns the chart of accounts ordered by (base, no).
func (s *accountService) ListAccounts(ctx context.Context, requestingUserID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx)
}

// UpdateAccount applies partial updates to an account.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		s.LogWarn(ctx, "Authorization failed for UpdateAccount", slog.String("user_id", requestingUserID))
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.No != nil {
		account.No = *req.No
		updated = true
	}
	if req.NeedsOffset != nil && *req.NeedsOffset != account.NeedsOffset {
		// Toggling offset tracking on an account that already has postings
		// would orphan or retroactively require offsets.
		used, err := s.accountRepo.HasLineItems(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check account usage: %w", err)
		}
		if used {
			return nil, fmt.Errorf("%w: cannot change offset tracking on account %s with existing line items",
				apperrors.ErrValidation, account.Code)
		}
		account.NeedsOffset = *req.NeedsOffset
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account inactive. Accounts that already carry
// line items keep their history; they are only hidden from entry forms.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
