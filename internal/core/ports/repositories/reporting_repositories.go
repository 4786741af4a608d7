package repositories

import (
	"context"
	"time"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepositoryFacade defines the read-only queries backing the
// generated reports.
type ReportingRepositoryFacade interface {
	// GetLedgerItems returns the line items of one account+currency within the
	// period, ordered by (entry_date, entry_no, created_at, line_item_id).
	GetLedgerItems(ctx context.Context, accountID, currencyCode string, period domain.Period) ([]domain.LineItem, error)
	// GetBroughtForward returns the debit and credit sums of the scope strictly
	// before the given date.
	GetBroughtForward(ctx context.Context, accountID, currencyCode string, before time.Time) (debit, credit decimal.Decimal, err error)
	GetTrialBalanceData(ctx context.Context, currencyCode string, asOf time.Time) ([]domain.TrialBalanceRow, error)
	GetIncomeStatementData(ctx context.Context, currencyCode string, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error)
	GetBalanceSheetData(ctx context.Context, currencyCode string, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)
	// ListJournal returns entries with line items for the period, ordered by
	// (entry_date, entry_no).
	ListJournal(ctx context.Context, period domain.Period) ([]domain.JournalEntry, error)
}
