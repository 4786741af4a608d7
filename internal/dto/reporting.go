package dto

import (
	"time"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRowResponse is one line of a ledger report with its running balance.
type LedgerRowResponse struct {
	LineItemID  string          `json:"lineItemID"`
	EntryID     string          `json:"entryID"`
	EntryDate   time.Time       `json:"entryDate"`
	EntryNo     int             `json:"entryNo"`
	AccountCode string          `json:"accountCode"`
	Description string          `json:"description"`
	Debit       *decimal.Decimal `json:"debit,omitempty"`
	Credit      *decimal.Decimal `json:"credit,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerReportResponse is the running-balance view of one account+currency.
type LedgerReportResponse struct {
	Account        AccountResponse     `json:"account"`
	CurrencyCode   string              `json:"currencyCode"`
	From           *time.Time          `json:"from,omitempty"`
	To             *time.Time          `json:"to,omitempty"`
	BroughtForward *decimal.Decimal    `json:"broughtForward,omitempty"`
	Rows           []LedgerRowResponse `json:"rows"`
	TotalDebit     decimal.Decimal     `json:"totalDebit"`
	TotalCredit    decimal.Decimal     `json:"totalCredit"`
	EndingBalance  decimal.Decimal     `json:"endingBalance"`
}

// TrialBalanceRowResponse is one account row of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse wraps a trial balance report.
type TrialBalanceResponse struct {
	CurrencyCode string                    `json:"currencyCode"`
	AsOf         time.Time                 `json:"asOf"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebit   decimal.Decimal           `json:"totalDebit"`
	TotalCredit  decimal.Decimal           `json:"totalCredit"`
}

// ToLedgerReportResponse converts a domain.LedgerReport.
func ToLedgerReportResponse(r *domain.LedgerReport) LedgerReportResponse {
	resp := LedgerReportResponse{
		Account:        ToAccountResponse(&r.Account),
		CurrencyCode:   r.CurrencyCode,
		From:           r.Period.From,
		To:             r.Period.To,
		BroughtForward: r.BroughtForward,
		Rows:           make([]LedgerRowResponse, 0, len(r.Rows)),
		TotalDebit:     r.TotalDebit,
		TotalCredit:    r.TotalCredit,
		EndingBalance:  r.EndingBalance,
	}
	for i := range r.Rows {
		row := LedgerRowResponse{
			LineItemID:  r.Rows[i].LineItemID,
			EntryID:     r.Rows[i].EntryID,
			EntryDate:   r.Rows[i].EntryDate,
			EntryNo:     r.Rows[i].EntryNo,
			AccountCode: r.Rows[i].AccountCode,
			Description: r.Rows[i].Description,
			Balance:     r.Rows[i].Balance,
		}
		amount := r.Rows[i].Amount
		if r.Rows[i].Side == domain.Debit {
			row.Debit = &amount
		} else {
			row.Credit = &amount
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}

// ToTrialBalanceResponse converts trial balance rows plus their totals.
func ToTrialBalanceResponse(currencyCode string, asOf time.Time, rows []domain.TrialBalanceRow) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		CurrencyCode: currencyCode,
		AsOf:         asOf,
		Rows:         make([]TrialBalanceRowResponse, 0, len(rows)),
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			Debit:       row.Debit,
			Credit:      row.Credit,
		})
		resp.TotalDebit = resp.TotalDebit.Add(row.Debit)
		resp.TotalCredit = resp.TotalCredit.Add(row.Credit)
	}
	return resp
}
