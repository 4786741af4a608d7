package repositories

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
)

// AccountRepositoryFacade defines the persistence operations for Accounts.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	// ListAccounts returns all accounts ordered by (base_code, no).
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	// HasLineItems reports whether any line item references the account.
	HasLineItems(ctx context.Context, accountID string) (bool, error)
}
