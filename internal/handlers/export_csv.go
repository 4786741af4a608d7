package handlers

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/dto"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// csvStreamer writes report rows through a buffered csv.Writer, flushing
// periodically so large exports do not pile up in memory.
type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer}
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.pendingLines >= csvFlushEvery {
		return s.flush()
	}
	return nil
}

func (s *csvStreamer) flush() error {
	s.pendingLines = 0
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	return s.buf.Flush()
}

// writeLedgerCSV renders a ledger report as CSV. Exactly one of the debit and
// credit cells is filled per row; the last row carries the totals.
func writeLedgerCSV(w io.Writer, report *domain.LedgerReport) error {
	s := newCSVStreamer(w)
	if err := s.writeRow([]string{"date", "account_code", "description", "debit", "credit", "balance"}); err != nil {
		return err
	}
	if report.BroughtForward != nil {
		row := []string{"", report.Account.Code, "Brought forward", "", "", report.BroughtForward.String()}
		if err := s.writeRow(row); err != nil {
			return err
		}
	}
	for i := range report.Rows {
		item := &report.Rows[i]
		row := []string{
			item.EntryDate.Format(dateLayout),
			item.AccountCode,
			item.Description,
			"",
			"",
			item.Balance.String(),
		}
		if item.Side == domain.Debit {
			row[3] = item.Amount.String()
		} else {
			row[4] = item.Amount.String()
		}
		if err := s.writeRow(row); err != nil {
			return err
		}
	}
	totals := []string{
		"", report.Account.Code, "Total",
		report.TotalDebit.String(), report.TotalCredit.String(), report.EndingBalance.String(),
	}
	if err := s.writeRow(totals); err != nil {
		return err
	}
	return s.flush()
}

// writeTrialBalanceCSV renders a trial balance as CSV with a trailing totals
// row.
func writeTrialBalanceCSV(w io.Writer, report *dto.TrialBalanceResponse) error {
	s := newCSVStreamer(w)
	if err := s.writeRow([]string{"account_code", "account_name", "debit", "credit"}); err != nil {
		return err
	}
	for i := range report.Rows {
		row := &report.Rows[i]
		record := []string{row.AccountCode, row.AccountName, row.Debit.String(), row.Credit.String()}
		if err := s.writeRow(record); err != nil {
			return err
		}
	}
	totals := []string{"", "Total", report.TotalDebit.String(), report.TotalCredit.String()}
	if err := s.writeRow(totals); err != nil {
		return err
	}
	return s.flush()
}

// csvFileName builds a Content-Disposition attachment name.
func csvFileName(parts ...string) string {
	name := ""
	for _, p := range parts {
		if name != "" {
			name += "_"
		}
		name += p
	}
	return fmt.Sprintf("attachment; filename=%q", name+".csv")
}
