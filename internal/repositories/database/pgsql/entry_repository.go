package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	"github.com/openacct/openacct/internal/models"
	"github.com/openacct/openacct/internal/utils/mapping"
	"github.com/openacct/openacct/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `
	entry_id, entry_date, entry_no, note, created_at, created_by, last_updated_at, last_updated_by`

// lineItemColumns joins the entry header for chronological annotations.
const lineItemColumns = `
	li.line_item_id, li.entry_id, li.account_id, li.currency_code, li.side, li.amount,
	li.description, li.line_no, li.original_id,
	li.created_at, li.created_by, li.last_updated_at, li.last_updated_by,
	e.entry_date, e.entry_no`

const insertLineItemQuery = `
	INSERT INTO line_items (
		line_item_id, entry_id, account_id, currency_code, side, amount,
		description, line_no, original_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.EntryNo,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLineItem(row pgx.Row) (models.LineItem, error) {
	var m models.LineItem
	err := row.Scan(
		&m.LineItemID,
		&m.EntryID,
		&m.AccountID,
		&m.CurrencyCode,
		&m.Side,
		&m.Amount,
		&m.Description,
		&m.LineNo,
		&m.OriginalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.EntryDate,
		&m.EntryNo,
	)
	return m, err
}

func queueLineItemInsert(batch *pgx.Batch, m models.LineItem) {
	batch.Queue(insertLineItemQuery,
		m.LineItemID, m.EntryID, m.AccountID, m.CurrencyCode, m.Side, m.Amount,
		m.Description, m.LineNo, m.OriginalID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
}

// SaveEntry inserts the entry header and its line items in one transaction.
// The header takes the next free ordinal of its date; the unique index on
// (entry_date, entry_no) turns a concurrent race into a retryable conflict.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	var entryNo int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(entry_no), 0) + 1 FROM journal_entries WHERE entry_date = $1;`,
		entry.EntryDate,
	).Scan(&entryNo)
	if err != nil {
		return 0, mapPgError(err, "failed to compute next entry ordinal")
	}

	m := mapping.ToModelEntry(entry)
	m.EntryNo = entryNo
	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`,
		m.EntryID, m.EntryDate, m.EntryNo, m.Note,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_journal_entries_date_no") {
			// Lost the max+1 race to a concurrent insert on the same date.
			return 0, fmt.Errorf("failed to insert entry %s: %w", m.EntryID, apperrors.ErrConflict)
		}
		return 0, mapPgError(err, "failed to insert entry "+m.EntryID)
	}

	items := make([]models.LineItem, len(entry.LineItems))
	for i, li := range entry.LineItems {
		items[i] = mapping.ToModelLineItem(li)
	}
	if err := lockOriginalHeadroom(ctx, tx, pendingOffsetsByOriginal(items)); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, li := range items {
		queueLineItemInsert(batch, li)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, mapPgError(err, "failed to insert line items for entry "+m.EntryID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find entry "+entryID)
	}
	d := mapping.ToDomainEntry(m)
	return &d, nil
}

func (r *PgxEntryRepository) FindLineItemByID(ctx context.Context, lineItemID string) (*domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.line_item_id = $1;
	`
	m, err := scanLineItem(r.Pool.QueryRow(ctx, query, lineItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find line item "+lineItemID)
	}
	d := mapping.ToDomainLineItem(m)
	return &d, nil
}

func (r *PgxEntryRepository) FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.entry_id = $1
		ORDER BY li.side, li.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, mapPgError(err, "failed to query line items for entry "+entryID)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan line item row")
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read line item rows")
	}
	return mapping.ToDomainLineItemSlice(items), nil
}

func (r *PgxEntryRepository) FindLineItemsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.LineItem, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.LineItem{}, nil
	}
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.entry_id = ANY($1)
		ORDER BY li.entry_id, li.side, li.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query line items by entry IDs")
	}
	defer rows.Close()

	result := make(map[string][]domain.LineItem, len(entryIDs))
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan line item row")
		}
		result[m.EntryID] = append(result[m.EntryID], mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read line item rows")
	}
	return result, nil
}

// ListEntries pages through entries ordered by (entry_date, entry_no) using
// an opaque keyset token.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, period domain.Period, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
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
	if nextToken != nil && *nextToken != "" {
		afterDate, afterNo, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(" AND (entry_date, entry_no) > ($%d, $%d)", argNo, argNo+1)
		args = append(args, afterDate, afterNo)
		argNo += 2
	}

	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(" ORDER BY entry_date, entry_no LIMIT $%d;", argNo)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query entries")
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, mapPgError(err, "failed to scan entry row")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "failed to read entry rows")
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.EntryNo)
		token = &t
	}
	return mapping.ToDomainEntrySlice(entries), token, nil
}

// UpdateEntry rewrites the header and, when line items are provided, replaces
// them. A date change appends the entry to the new date's sequence; the old
// date keeps its hole until resequenced.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var currentDate time.Time
	err = tx.QueryRow(ctx,
		`SELECT entry_date FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`,
		entry.EntryID,
	).Scan(&currentDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return mapPgError(err, "failed to lock entry "+entry.EntryID)
	}

	m := mapping.ToModelEntry(entry)
	if !currentDate.Equal(entry.EntryDate) {
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(entry_no), 0) + 1 FROM journal_entries WHERE entry_date = $1;`,
			entry.EntryDate,
		).Scan(&m.EntryNo)
		if err != nil {
			return mapPgError(err, "failed to compute next entry ordinal")
		}
		_, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET entry_date = $2, entry_no = $3, note = $4, last_updated_at = $5, last_updated_by = $6
			WHERE entry_id = $1;
		`, m.EntryID, m.EntryDate, m.EntryNo, m.Note, m.LastUpdatedAt, m.LastUpdatedBy)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET note = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1;
		`, m.EntryID, m.Note, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	if err != nil {
		if isUniqueViolation(err, "uq_journal_entries_date_no") {
			return fmt.Errorf("failed to update entry %s: %w", m.EntryID, apperrors.ErrConflict)
		}
		return mapPgError(err, "failed to update entry "+m.EntryID)
	}

	if len(entry.LineItems) > 0 {
		_, err = tx.Exec(ctx, `DELETE FROM line_items WHERE entry_id = $1;`, entry.EntryID)
		if err != nil {
			return mapPgError(err, "failed to delete line items for entry "+entry.EntryID)
		}
		items := make([]models.LineItem, len(entry.LineItems))
		for i, li := range entry.LineItems {
			items[i] = mapping.ToModelLineItem(li)
		}
		if err := lockOriginalHeadroom(ctx, tx, pendingOffsetsByOriginal(items)); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for _, li := range items {
			queueLineItemInsert(batch, li)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapPgError(err, "failed to insert line items for entry "+entry.EntryID)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE entry_id = $1;`, entryID); err != nil {
		return mapPgError(err, "failed to delete line items for entry "+entryID)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return mapPgError(err, "failed to delete entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

func (r *PgxEntryRepository) ListEntryOrdinals(ctx context.Context, date time.Time) (map[string]int, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT entry_id, entry_no FROM journal_entries WHERE entry_date = $1;`, date)
	if err != nil {
		return nil, mapPgError(err, "failed to query entry ordinals")
	}
	defer rows.Close()

	ordinals := map[string]int{}
	for rows.Next() {
		var id string
		var no int
		if err := rows.Scan(&id, &no); err != nil {
			return nil, mapPgError(err, "failed to scan entry ordinal row")
		}
		ordinals[id] = no
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read entry ordinal rows")
	}
	return ordinals, nil
}

// UpdateEntryOrdinals rewrites a date's ordinals in two phases: the sequence
// is first shifted negative so the permutation never trips the unique index
// mid-flight.
func (r *PgxEntryRepository) UpdateEntryOrdinals(ctx context.Context, date time.Time, ordinals map[string]int, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`UPDATE journal_entries SET entry_no = -entry_no WHERE entry_date = $1;`, date); err != nil {
		return mapPgError(err, "failed to shift entry ordinals")
	}

	batch := &pgx.Batch{}
	for entryID, no := range ordinals {
		batch.Queue(`
			UPDATE journal_entries
			SET entry_no = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1;
		`, entryID, no, now, userID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to rewrite entry ordinals")
	}

	return r.Commit(ctx, tx)
}

func (r *PgxEntryRepository) ListEntryOrdinalsByPeriod(ctx context.Context, period domain.Period) (map[time.Time][]int, error) {
	query := `SELECT entry_date, entry_no FROM journal_entries WHERE 1=1`
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
		return nil, mapPgError(err, "failed to query entry ordinals by period")
	}
	defer rows.Close()

	result := map[time.Time][]int{}
	for rows.Next() {
		var date time.Time
		var no int
		if err := rows.Scan(&date, &no); err != nil {
			return nil, mapPgError(err, "failed to scan entry ordinal row")
		}
		date = date.UTC()
		result[date] = append(result[date], no)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read entry ordinal rows")
	}
	return result, nil
}

func (r *PgxEntryRepository) ListLineItemOrdinals(ctx context.Context, entryID string, side domain.EntrySide) (map[string]int, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT line_item_id, line_no FROM line_items WHERE entry_id = $1 AND side = $2;`,
		entryID, string(side))
	if err != nil {
		return nil, mapPgError(err, "failed to query line item ordinals")
	}
	defer rows.Close()

	ordinals := map[string]int{}
	for rows.Next() {
		var id string
		var no int
		if err := rows.Scan(&id, &no); err != nil {
			return nil, mapPgError(err, "failed to scan line item ordinal row")
		}
		ordinals[id] = no
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to read line item ordinal rows")
	}
	return ordinals, nil
}

func (r *PgxEntryRepository) UpdateLineItemOrdinals(ctx context.Context, entryID string, side domain.EntrySide, ordinals map[string]int, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`UPDATE line_items SET line_no = -line_no WHERE entry_id = $1 AND side = $2;`,
		entryID, string(side)); err != nil {
		return mapPgError(err, "failed to shift line item ordinals")
	}

	batch := &pgx.Batch{}
	for lineItemID, no := range ordinals {
		batch.Queue(`
			UPDATE line_items
			SET line_no = $2, last_updated_at = $3, last_updated_by = $4
			WHERE line_item_id = $1;
		`, lineItemID, no, now, userID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to rewrite line item ordinals")
	}

	return r.Commit(ctx, tx)
}
