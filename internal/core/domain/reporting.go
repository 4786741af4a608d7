package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is an inclusive date range, possibly unbounded on either end.
type Period struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// LedgerReport is the running-balance view of one account in one currency
// over a period. BroughtForward is the seed balance accumulated before the
// period start; it is nil when the period is unbounded at the start.
type LedgerReport struct {
	Account        Account          `json:"account"`
	CurrencyCode   string           `json:"currencyCode"`
	Period         Period           `json:"period"`
	BroughtForward *decimal.Decimal `json:"broughtForward,omitempty"`
	Rows           []LineItem       `json:"rows"` // Balance annotation populated
	TotalDebit     decimal.Decimal  `json:"totalDebit"`
	TotalCredit    decimal.Decimal  `json:"totalCredit"`
	EndingBalance  decimal.Decimal  `json:"endingBalance"`
}

// TrialBalanceRow represents a single account row in a trial balance report.
// Exactly one of Debit/Credit is non-zero for a non-degenerate account.
type TrialBalanceRow struct {
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// IncomeStatement represents revenue and expenses over a period.
type IncomeStatement struct {
	CurrencyCode string          `json:"currencyCode"`
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// BalanceSheet represents assets, liabilities and equity as of a date.
type BalanceSheet struct {
	CurrencyCode     string          `json:"currencyCode"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}
