package handlers

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/dto"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestWriteLedgerCSV(t *testing.T) {
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	bf := dec("20")
	report := &domain.LedgerReport{
		Account:        domain.Account{Code: "1111"},
		CurrencyCode:   "USD",
		BroughtForward: &bf,
		Rows: []domain.LineItem{
			{EntryDate: day, AccountCode: "1111", Description: "cash in", Side: domain.Debit, Amount: dec("50"), Balance: dec("70")},
			{EntryDate: day.AddDate(0, 0, 1), AccountCode: "1111", Description: "cash out", Side: domain.Credit, Amount: dec("30"), Balance: dec("40")},
		},
		TotalDebit:    dec("50"),
		TotalCredit:   dec("30"),
		EndingBalance: dec("40"),
	}

	var buf bytes.Buffer
	require.NoError(t, writeLedgerCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"date", "account_code", "description", "debit", "credit", "balance"}, records[0])
	assert.Equal(t, []string{"", "1111", "Brought forward", "", "", "20"}, records[1])
	assert.Equal(t, []string{"2026-04-01", "1111", "cash in", "50", "", "70"}, records[2])
	assert.Equal(t, []string{"2026-04-02", "1111", "cash out", "", "30", "40"}, records[3])
	assert.Equal(t, []string{"", "1111", "Total", "50", "30", "40"}, records[4])
}

func TestWriteLedgerCSVNoBroughtForward(t *testing.T) {
	report := &domain.LedgerReport{
		Account:       domain.Account{Code: "1111"},
		CurrencyCode:  "USD",
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		EndingBalance: decimal.Zero,
	}

	var buf bytes.Buffer
	require.NoError(t, writeLedgerCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// Header and totals only; no brought-forward pseudo-row.
	require.Len(t, records, 2)
	assert.Equal(t, []string{"", "1111", "Total", "0", "0", "0"}, records[1])
}

func TestWriteTrialBalanceCSV(t *testing.T) {
	resp := &dto.TrialBalanceResponse{
		CurrencyCode: "USD",
		AsOf:         time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		Rows: []dto.TrialBalanceRowResponse{
			{AccountCode: "1111", AccountName: "Cash", Debit: dec("70"), Credit: decimal.Zero},
			{AccountCode: "4111", AccountName: "Sales", Debit: decimal.Zero, Credit: dec("70")},
		},
		TotalDebit:  dec("70"),
		TotalCredit: dec("70"),
	}

	var buf bytes.Buffer
	require.NoError(t, writeTrialBalanceCSV(&buf, resp))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"account_code", "account_name", "debit", "credit"}, records[0])
	assert.Equal(t, []string{"", "Total", "70", "70"}, records[3])
}
