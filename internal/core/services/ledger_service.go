package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/utils/accounting"
)

// ledgerService produces the running-balance ledger view of one account in
// one currency.
type ledgerService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(reportingRepo portsrepo.ReportingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, authorizer portssvc.AuthorizerSvc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:   BaseService{Authorizer: authorizer},
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Ledger computes the ledger rows with running balances. When the period has a
// lower bound, the balance accumulated strictly before it becomes the brought
// forward seed; an unbounded period starts the fold at zero with no brought
// forward row.
func (s *ledgerService) Ledger(ctx context.Context, accountID, currencyCode string, period domain.Period, requestingUserID string) (*domain.LedgerReport, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		s.LogWarn(ctx, "Authorization failed for Ledger", slog.String("user_id", requestingUserID))
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	normal := account.AccountType.NormalBalance()

	seed := decimal.Zero
	var broughtForward *decimal.Decimal
	if period.From != nil {
		debit, credit, err := s.reportingRepo.GetBroughtForward(ctx, accountID, currencyCode, *period.From)
		if err != nil {
			s.LogError(ctx, err, "Failed to compute brought forward", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to compute brought forward: %w", err)
		}
		if normal == domain.DebitNormal {
			seed = debit.Sub(credit)
		} else {
			seed = credit.Sub(debit)
		}
		broughtForward = &seed
	}

	items, err := s.reportingRepo.GetLedgerItems(ctx, accountID, currencyCode, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger items", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to load ledger items: %w", err)
	}

	rows, totals := accounting.RunningBalances(normal, seed, items)
	return &domain.LedgerReport{
		Account:        *account,
		CurrencyCode:   currencyCode,
		Period:         period,
		BroughtForward: broughtForward,
		Rows:           rows,
		TotalDebit:     totals.TotalDebit,
		TotalCredit:    totals.TotalCredit,
		EndingBalance:  totals.EndingBalance,
	}, nil
}
