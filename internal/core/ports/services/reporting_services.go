package services

import (
	"context"
	"time"

	"github.com/openacct/openacct/internal/core/domain"
)

// ReportingSvcFacade generates the financial reports.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, currencyCode string, asOf time.Time, requestingUserID string) ([]domain.TrialBalanceRow, error)
	IncomeStatement(ctx context.Context, currencyCode string, from, to time.Time, requestingUserID string) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, currencyCode string, asOf time.Time, requestingUserID string) (*domain.BalanceSheet, error)
	// Journal returns the period's entries with their line items in
	// (date, entry ordinal) order.
	Journal(ctx context.Context, period domain.Period, requestingUserID string) ([]domain.JournalEntry, error)
}
