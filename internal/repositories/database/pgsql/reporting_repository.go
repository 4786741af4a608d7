package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	"github.com/openacct/openacct/internal/models"
	"github.com/openacct/openacct/internal/utils/mapping"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// GetLedgerItems returns the scope's line items within the period in
// chronological order.
func (r *PgxReportingRepository) GetLedgerItems(ctx context.Context, accountID, currencyCode string, period domain.Period) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.account_id = $1 AND li.currency_code = $2`
	args := []any{accountID, currencyCode}
	argNo := 3
	if period.From != nil {
		query += fmt.Sprintf(" AND e.entry_date >= $%d", argNo)
		args = append(args, *period.From)
		argNo++
	}
	if period.To != nil {
		query += fmt.Sprintf(" AND e.entry_date <= $%d", argNo)
		args = append(args, *period.To)
		argNo++
	}
	query += " ORDER BY e.entry_date, e.entry_no, li.created_at, li.line_item_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger items")
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan ledger item row")
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read ledger item rows")
	}
	return mapping.ToDomainLineItemSlice(items), nil
}

// GetBroughtForward returns the scope's debit and credit sums strictly before
// the given date.
func (r *PgxReportingRepository) GetBroughtForward(ctx context.Context, accountID, currencyCode string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'DEBIT'), 0),
			COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'CREDIT'), 0)
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.account_id = $1 AND li.currency_code = $2 AND e.entry_date < $3;
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, currencyCode, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, mapPgError(err, "failed to compute brought forward sums")
	}
	return debit, credit, nil
}

// GetTrialBalanceData aggregates each account's debit and credit sums as of
// the date and nets them onto the account's normal side.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, currencyCode string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id, a.code, a.name, a.account_type,
			COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'DEBIT'), 0) AS debit_sum,
			COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'CREDIT'), 0) AS credit_sum
		FROM accounts a
		JOIN line_items li ON li.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.currency_code = $1 AND e.entry_date <= $2
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, currencyCode, asOf)
	if err != nil {
		return nil, mapPgError(err, "failed to query trial balance data")
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var debitSum, creditSum decimal.Decimal
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &debitSum, &creditSum); err != nil {
			return nil, mapPgError(err, "failed to scan trial balance row")
		}
		row.CurrencyCode = currencyCode

		net := debitSum.Sub(creditSum)
		if net.IsPositive() {
			row.Debit = net
			row.Credit = decimal.Zero
		} else {
			row.Debit = decimal.Zero
			row.Credit = net.Neg()
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read trial balance rows")
	}
	return result, nil
}

func (r *PgxReportingRepository) accountAmounts(ctx context.Context, query string, args ...any) ([]domain.AccountAmount, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query account amounts")
	}
	defer rows.Close()

	result := []domain.AccountAmount{}
	for rows.Next() {
		var aa domain.AccountAmount
		if err := rows.Scan(&aa.AccountID, &aa.AccountCode, &aa.Name, &aa.NetAmount); err != nil {
			return nil, mapPgError(err, "failed to scan account amount row")
		}
		result = append(result, aa)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read account amount rows")
	}
	return result, nil
}

// netByTypeQuery nets each account of one type onto its normal side.
const netByTypeQuery = `
	SELECT
		a.account_id, a.code, a.name,
		CASE WHEN a.account_type IN ('ASSET', 'EXPENSE')
			THEN COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'DEBIT'), 0)
			   - COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'CREDIT'), 0)
			ELSE COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'CREDIT'), 0)
			   - COALESCE(SUM(li.amount) FILTER (WHERE li.side = 'DEBIT'), 0)
		END AS net_amount
	FROM accounts a
	JOIN line_items li ON li.account_id = a.account_id
	JOIN journal_entries e ON e.entry_id = li.entry_id
	WHERE a.account_type = $1 AND li.currency_code = $2`

func (r *PgxReportingRepository) GetIncomeStatementData(ctx context.Context, currencyCode string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := netByTypeQuery + `
		AND e.entry_date >= $3 AND e.entry_date <= $4
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	revenue, err := r.accountAmounts(ctx, query, string(domain.Revenue), currencyCode, from, to)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := r.accountAmounts(ctx, query, string(domain.Expense), currencyCode, from, to)
	if err != nil {
		return nil, nil, err
	}
	return revenue, expenses, nil
}

func (r *PgxReportingRepository) GetBalanceSheetData(ctx context.Context, currencyCode string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := netByTypeQuery + `
		AND e.entry_date <= $3
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	assets, err := r.accountAmounts(ctx, query, string(domain.Asset), currencyCode, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	liabilities, err := r.accountAmounts(ctx, query, string(domain.Liability), currencyCode, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	equity, err := r.accountAmounts(ctx, query, string(domain.Equity), currencyCode, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	return assets, liabilities, equity, nil
}

// ListJournal returns the period's entries with their line items in day-book
// order.
func (r *PgxReportingRepository) ListJournal(ctx context.Context, period domain.Period) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argNo := 1
	if period.From != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", argNo)
		args = append(args, *period.From)
		argNo++
	}
	if period.To != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", argNo)
		args = append(args, *period.To)
		argNo++
	}
	query += " ORDER BY entry_date, entry_no;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal entries")
	}
	defer rows.Close()

	headers := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan journal entry row")
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read journal entry rows")
	}

	entries := mapping.ToDomainEntrySlice(headers)
	if len(entries) == 0 {
		return entries, nil
	}

	entryIDs := make([]string, len(entries))
	for i := range entries {
		entryIDs[i] = entries[i].EntryID
	}
	itemQuery := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.entry_id = ANY($1)
		ORDER BY li.entry_id, li.side, li.line_no;
	`
	itemRows, err := r.Pool.Query(ctx, itemQuery, entryIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal line items")
	}
	defer itemRows.Close()

	itemsByEntry := map[string][]domain.LineItem{}
	for itemRows.Next() {
		m, err := scanLineItem(itemRows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan journal line item row")
		}
		itemsByEntry[m.EntryID] = append(itemsByEntry[m.EntryID], mapping.ToDomainLineItem(m))
	}
	if err := itemRows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read journal line item rows")
	}

	for i := range entries {
		entries[i].LineItems = itemsByEntry[entries[i].EntryID]
	}
	return entries, nil
}
