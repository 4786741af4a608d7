package accounting

import (
	"sort"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTotals aggregates a running-balance computation.
type LedgerTotals struct {
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	EndingBalance decimal.Decimal
}

// SortChronological orders line items by entry date, then same-day entry
// ordinal, then creation time, then lowest id. The id comparison is the
// documented tie-break: it makes every downstream fold and match deterministic
// even when two items were created in the same instant.
func SortChronological(items []domain.LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryNo != b.EntryNo {
			return a.EntryNo < b.EntryNo
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.LineItemID < b.LineItemID
	})
}

// RunningBalances folds over line items in chronological order, annotating
// each with the balance after applying it, seeded with broughtForward.
// Debits increase the balance of debit-normal accounts and decrease
// credit-normal ones; credits do the reverse. The input slice is not
// modified; annotated copies are returned together with the fold totals.
//
// An empty input yields no rows and an ending balance equal to the seed.
func RunningBalances(normal domain.NormalBalance, broughtForward decimal.Decimal, items []domain.LineItem) ([]domain.LineItem, LedgerTotals) {
	rows := make([]domain.LineItem, len(items))
	copy(rows, items)
	SortChronological(rows)

	totals := LedgerTotals{
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		EndingBalance: broughtForward,
	}

	for i := range rows {
		if rows[i].Side == domain.Debit {
			totals.TotalDebit = totals.TotalDebit.Add(rows[i].Amount)
		} else {
			totals.TotalCredit = totals.TotalCredit.Add(rows[i].Amount)
		}
		totals.EndingBalance = totals.EndingBalance.Add(rows[i].SignedAmount(normal))
		rows[i].Balance = totals.EndingBalance
	}

	return rows, totals
}
