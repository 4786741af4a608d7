package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	"github.com/openacct/openacct/internal/models"
	"github.com/openacct/openacct/internal/utils/mapping"
)

type PgxOffsetRepository struct {
	BaseRepository
}

func newPgxOffsetRepository(pool *pgxpool.Pool) portsrepo.OffsetRepositoryFacade {
	return &PgxOffsetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OffsetRepositoryFacade = (*PgxOffsetRepository)(nil)

func (r *PgxOffsetRepository) queryLineItems(ctx context.Context, query string, args ...any) ([]domain.LineItem, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query line items")
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

// FindOriginals returns items on the given side of the scope that do not
// themselves reference an original.
func (r *PgxOffsetRepository) FindOriginals(ctx context.Context, accountID, currencyCode string, side domain.EntrySide) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.account_id = $1 AND li.currency_code = $2 AND li.side = $3
		  AND li.original_id IS NULL
		ORDER BY e.entry_date, e.entry_no, li.created_at, li.line_item_id;
	`
	return r.queryLineItems(ctx, query, accountID, currencyCode, string(side))
}

// FindOffsets returns items in scope whose original reference is set.
func (r *PgxOffsetRepository) FindOffsets(ctx context.Context, accountID, currencyCode string) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.account_id = $1 AND li.currency_code = $2
		  AND li.original_id IS NOT NULL
		ORDER BY e.entry_date, e.entry_no, li.created_at, li.line_item_id;
	`
	return r.queryLineItems(ctx, query, accountID, currencyCode)
}

// FindOffsetCandidates returns items on the offsetting side with no original
// reference assigned yet.
func (r *PgxOffsetRepository) FindOffsetCandidates(ctx context.Context, accountID, currencyCode string, side domain.EntrySide) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.account_id = $1 AND li.currency_code = $2 AND li.side = $3
		  AND li.original_id IS NULL
		ORDER BY e.entry_date, e.entry_no, li.created_at, li.line_item_id;
	`
	return r.queryLineItems(ctx, query, accountID, currencyCode, string(side))
}

func (r *PgxOffsetRepository) FindLineItemsByIDs(ctx context.Context, lineItemIDs []string) (map[string]domain.LineItem, error) {
	if len(lineItemIDs) == 0 {
		return map[string]domain.LineItem{}, nil
	}
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items li
		JOIN journal_entries e ON e.entry_id = li.entry_id
		WHERE li.line_item_id = ANY($1);
	`
	items, err := r.queryLineItems(ctx, query, lineItemIDs)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.LineItem, len(items))
	for _, li := range items {
		result[li.LineItemID] = li
	}
	return result, nil
}

// pendingOffsetsFromPairs folds a confirmation batch into per-original totals.
func pendingOffsetsFromPairs(pairs []domain.MatchPair) map[string]decimal.Decimal {
	pending := make(map[string]decimal.Decimal, len(pairs))
	for _, p := range pairs {
		pending[p.Original.LineItemID] = pending[p.Original.LineItemID].Add(p.Offset.Amount)
	}
	return pending
}

// pendingOffsetsByOriginal folds the offset legs of an insert batch into
// per-original totals, so several legs against one original are checked as a
// sum rather than one at a time.
func pendingOffsetsByOriginal(items []models.LineItem) map[string]decimal.Decimal {
	pending := map[string]decimal.Decimal{}
	for _, m := range items {
		if m.OriginalID == nil {
			continue
		}
		pending[*m.OriginalID] = pending[*m.OriginalID].Add(m.Amount)
	}
	return pending
}

// lockOriginalHeadroom locks each referenced original and verifies the
// pending offset amounts still fit within its remaining net balance. Service
// validation works from pool reads that can go stale under concurrent writes;
// this re-check runs under row locks inside the writing transaction. Ids are
// locked in sorted order so concurrent batches cannot deadlock each other.
func lockOriginalHeadroom(ctx context.Context, tx pgx.Tx, pending map[string]decimal.Decimal) error {
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		var amount decimal.Decimal
		err := tx.QueryRow(ctx,
			`SELECT amount FROM line_items WHERE line_item_id = $1 FOR UPDATE;`, id,
		).Scan(&amount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: original line item %s", apperrors.ErrNotFound, id)
			}
			return mapPgError(err, "failed to lock original line item "+id)
		}

		var offsetSum decimal.Decimal
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM line_items WHERE original_id = $1;`, id,
		).Scan(&offsetSum)
		if err != nil {
			return mapPgError(err, "failed to sum offsets of original "+id)
		}

		if remaining := amount.Sub(offsetSum); pending[id].GreaterThan(remaining) {
			return fmt.Errorf("%w: offsets totalling %s exceed the remaining net balance %s of original %s",
				apperrors.ErrValidation, pending[id].String(), remaining.String(), id)
		}
	}
	return nil
}

// ApplyMatches writes the original reference onto each matched offset in one
// transaction. Each original is locked and its remaining net balance
// re-verified under the lock, so a racing writer can never push a net balance
// negative. Every target row must still be unassigned; a row claimed by a
// concurrent writer aborts the whole batch with ErrConflict.
func (r *PgxOffsetRepository) ApplyMatches(ctx context.Context, pairs []domain.MatchPair, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockOriginalHeadroom(ctx, tx, pendingOffsetsFromPairs(pairs)); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(`
			UPDATE line_items
			SET original_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE line_item_id = $1 AND original_id IS NULL;
		`, p.Offset.LineItemID, p.Original.LineItemID, now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	for range pairs {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return mapPgError(err, "failed to apply offset match")
		}
		if tag.RowsAffected() == 0 {
			br.Close()
			return apperrors.ErrConflict
		}
	}
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to apply offset matches")
	}

	return r.Commit(ctx, tx)
}
