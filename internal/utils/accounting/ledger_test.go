package accounting_test

import (
	"testing"
	"time"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func item(id string, d int, entryNo int, side domain.EntrySide, amount string) domain.LineItem {
	return domain.LineItem{
		LineItemID: id,
		Side:       side,
		Amount:     decimal.RequireFromString(amount),
		EntryDate:  day(d),
		EntryNo:    entryNo,
	}
}

func TestRunningBalances_DebitNormal(t *testing.T) {
	items := []domain.LineItem{
		item("li-2", 6, 1, domain.Credit, "30"),
		item("li-1", 5, 1, domain.Debit, "50"),
	}
	seed := decimal.RequireFromString("20")

	rows, totals := accounting.RunningBalances(domain.DebitNormal, seed, items)

	require.Len(t, rows, 2)
	// Chronological order restored: the debit on day 5 comes first.
	assert.Equal(t, "li-1", rows[0].LineItemID)
	assert.Equal(t, "70", rows[0].Balance.String())
	assert.Equal(t, "li-2", rows[1].LineItemID)
	assert.Equal(t, "40", rows[1].Balance.String())

	assert.Equal(t, "50", totals.TotalDebit.String())
	assert.Equal(t, "30", totals.TotalCredit.String())
	assert.Equal(t, "40", totals.EndingBalance.String())
}

func TestRunningBalances_CreditNormal(t *testing.T) {
	items := []domain.LineItem{
		item("li-1", 1, 1, domain.Credit, "100"),
		item("li-2", 2, 1, domain.Debit, "40"),
	}

	rows, totals := accounting.RunningBalances(domain.CreditNormal, decimal.Zero, items)

	require.Len(t, rows, 2)
	assert.Equal(t, "100", rows[0].Balance.String())
	assert.Equal(t, "60", rows[1].Balance.String())
	assert.Equal(t, "60", totals.EndingBalance.String())
}

func TestRunningBalances_Empty(t *testing.T) {
	seed := decimal.RequireFromString("12.34")
	rows, totals := accounting.RunningBalances(domain.DebitNormal, seed, nil)
	assert.Empty(t, rows)
	assert.Equal(t, "12.34", totals.EndingBalance.String())
	assert.True(t, totals.TotalDebit.IsZero())
	assert.True(t, totals.TotalCredit.IsZero())
}

// Splitting a period and carrying the intermediate balance forward as a seed
// must never change the final total.
func TestRunningBalances_SplitInvariance(t *testing.T) {
	items := []domain.LineItem{
		item("a", 1, 1, domain.Debit, "10"),
		item("b", 2, 1, domain.Credit, "3.50"),
		item("c", 2, 2, domain.Debit, "7"),
		item("d", 3, 1, domain.Credit, "0.25"),
		item("e", 4, 1, domain.Debit, "100"),
	}

	_, whole := accounting.RunningBalances(domain.DebitNormal, decimal.Zero, items)

	for split := 0; split <= len(items); split++ {
		_, first := accounting.RunningBalances(domain.DebitNormal, decimal.Zero, items[:split])
		_, second := accounting.RunningBalances(domain.DebitNormal, first.EndingBalance, items[split:])
		assert.True(t, whole.EndingBalance.Equal(second.EndingBalance),
			"split at %d: got %s, want %s", split, second.EndingBalance, whole.EndingBalance)
	}
}

func TestRunningBalances_SameDayOrdinalOrder(t *testing.T) {
	items := []domain.LineItem{
		item("second", 5, 2, domain.Credit, "80"),
		item("first", 5, 1, domain.Debit, "100"),
	}

	rows, _ := accounting.RunningBalances(domain.DebitNormal, decimal.Zero, items)

	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].LineItemID)
	assert.Equal(t, "100", rows[0].Balance.String())
	assert.Equal(t, "20", rows[1].Balance.String())
}

func TestRunningBalances_TieBreakByID(t *testing.T) {
	created := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	a := item("aaa", 5, 1, domain.Debit, "1")
	b := item("bbb", 5, 1, domain.Debit, "2")
	a.CreatedAt = created
	b.CreatedAt = created

	rows, _ := accounting.RunningBalances(domain.DebitNormal, decimal.Zero, []domain.LineItem{b, a})

	require.Len(t, rows, 2)
	assert.Equal(t, "aaa", rows[0].LineItemID)
	assert.Equal(t, "bbb", rows[1].LineItemID)
}
