package services

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
)

// LedgerSvcFacade produces the running-balance ledger view of one account in
// one currency.
type LedgerSvcFacade interface {
	Ledger(ctx context.Context, accountID, currencyCode string, period domain.Period, requestingUserID string) (*domain.LedgerReport, error)
}
