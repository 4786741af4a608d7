package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
)

// reportingService generates financial reports from read-only queries.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade, authorizer portssvc.AuthorizerSvc) portssvc.ReportingSvcFacade {
	return &reportingService{
		BaseService:   BaseService{Authorizer: authorizer},
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance returns per-account debit/credit balances as of the date.
func (s *reportingService) TrialBalance(ctx context.Context, currencyCode string, asOf time.Time, requestingUserID string) ([]domain.TrialBalanceRow, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, currencyCode, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate trial balance", slog.String("currency_code", currencyCode))
		return nil, fmt.Errorf("failed to generate trial balance: %w", err)
	}
	return rows, nil
}

// IncomeStatement returns revenue and expenses over the period.
func (s *reportingService) IncomeStatement(ctx context.Context, currencyCode string, from, to time.Time, requestingUserID string) (*domain.IncomeStatement, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}

	revenue, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, currencyCode, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate income statement", slog.String("currency_code", currencyCode))
		return nil, fmt.Errorf("failed to generate income statement: %w", err)
	}

	netIncome := sumAmounts(revenue).Sub(sumAmounts(expenses))
	return &domain.IncomeStatement{
		CurrencyCode: currencyCode,
		Revenue:      revenue,
		Expenses:     expenses,
		NetIncome:    netIncome,
	}, nil
}

// BalanceSheet returns assets, liabilities and equity as of the date.
func (s *reportingService) BalanceSheet(ctx context.Context, currencyCode string, asOf time.Time, requestingUserID string) (*domain.BalanceSheet, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, currencyCode, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate balance sheet", slog.String("currency_code", currencyCode))
		return nil, fmt.Errorf("failed to generate balance sheet: %w", err)
	}

	return &domain.BalanceSheet{
		CurrencyCode:     currencyCode,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
		TotalEquity:      sumAmounts(equity),
	}, nil
}

// Journal returns the period's entries with line items in day-book order.
func (s *reportingService) Journal(ctx context.Context, period domain.Period, requestingUserID string) ([]domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}

	entries, err := s.reportingRepo.ListJournal(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate journal")
		return nil, fmt.Errorf("failed to generate journal: %w", err)
	}
	return entries, nil
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
