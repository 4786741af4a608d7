package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/dto"
	"github.com/openacct/openacct/internal/utils/accounting"
)

const (
	defaultEntryPageSize = 50
	maxEntryPageSize     = 200
)

// entryService implements journal entry creation, rewriting and the ordinal
// maintenance that keeps same-day sequences contiguous.
type entryService struct {
	BaseService
	entryRepo   portsrepo.EntryRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	offsetRepo  portsrepo.OffsetRepositoryFacade
}

// NewEntryService creates a new EntryService.
func NewEntryService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	offsetRepo portsrepo.OffsetRepositoryFacade,
	authorizer portssvc.AuthorizerSvc,
) portssvc.EntrySvcFacade {
	return &entryService{
		BaseService: BaseService{Authorizer: authorizer},
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		offsetRepo:  offsetRepo,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// CreateEntry validates and persists a new balanced journal entry. The entry
// receives the next free EntryNo of its date inside the save transaction.
func (s *entryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, domain.RoleEditor); err != nil {
		s.LogWarn(ctx, "Authorization failed for CreateEntry", slog.String("user_id", creatorUserID))
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	items, err := s.buildLineItems(ctx, entryID, req.LineItems, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: dateOnly(req.Date),
		Note:      req.Note,
		LineItems: items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// A concurrent insert on the same date can take the computed ordinal
	// first; the save surfaces that as ErrConflict and is retried.
	var entryNo int
	err = s.RetryOnConflict(ctx, func() error {
		var saveErr error
		entryNo, saveErr = s.entryRepo.SaveEntry(ctx, entry)
		return saveErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	entry.EntryNo = entryNo

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entryID),
		slog.Time("entry_date", entry.EntryDate),
		slog.Int("entry_no", entryNo))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its line items.
func (s *entryService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if len(entry.LineItems) == 0 {
		items, err := s.entryRepo.FindLineItemsByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load line items: %w", err)
		}
		entry.LineItems = items
	}
	return entry, nil
}

// ListEntries returns a page of entries within the requested period.
func (s *entryService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}

	period := domain.Period{From: params.From, To: params.To}
	entries, nextToken, err := s.entryRepo.ListEntries(ctx, period, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if params.IncludeLineItems && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i := range entries {
			entryIDs[i] = entries[i].EntryID
		}
		itemsByEntry, err := s.entryRepo.FindLineItemsByEntryIDs(ctx, entryIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load line items: %w", err)
		}
		for i := range entries {
			entries[i].LineItems = itemsByEntry[entries[i].EntryID]
		}
	}

	resp := dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return &resp, nil
}

// UpdateEntry rewrites an entry. A date change appends the entry to the new
// date's sequence and leaves a detectable hole on the old date.
func (s *entryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		s.LogWarn(ctx, "Authorization failed for UpdateEntry", slog.String("user_id", requestingUserID))
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Date != nil {
		entry.EntryDate = dateOnly(*req.Date)
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}
	if req.LineItems != nil {
		existing, err := s.entryRepo.FindLineItemsByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load line items: %w", err)
		}
		for _, li := range existing {
			if err := s.ensureNotReferenced(ctx, li); err != nil {
				return nil, err
			}
		}
		items, err := s.buildLineItems(ctx, entryID, req.LineItems, requestingUserID, now)
		if err != nil {
			return nil, err
		}
		entry.LineItems = items
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID
	err = s.RetryOnConflict(ctx, func() error {
		return s.entryRepo.UpdateEntry(ctx, *entry)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return s.GetEntryByID(ctx, entryID)
}

// DeleteEntry removes an entry whose line items are not referenced as
// originals by offsets elsewhere.
func (s *entryService) DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		return err
	}

	items, err := s.entryRepo.FindLineItemsByEntryID(ctx, entryID)
	if err != nil {
		return err
	}
	for _, li := range items {
		if err := s.ensureNotReferenced(ctx, li); err != nil {
			return err
		}
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

// ReorderEntries rewrites a date's EntryNo sequence to the requested order.
func (s *entryService) ReorderEntries(ctx context.Context, date time.Time, orderedEntryIDs []string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		return err
	}

	date = dateOnly(date)
	current, err := s.entryRepo.ListEntryOrdinals(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to list entry ordinals: %w", err)
	}
	if len(current) == 0 {
		return fmt.Errorf("%w: no entries on %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
	}

	existingIDs := make([]string, 0, len(current))
	for id := range current {
		existingIDs = append(existingIDs, id)
	}
	ordinals, err := accounting.Resequence(existingIDs, orderedEntryIDs)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	err = s.RetryOnConflict(ctx, func() error {
		return s.entryRepo.UpdateEntryOrdinals(ctx, date, ordinals, requestingUserID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reorder entries", slog.Time("entry_date", date))
		return fmt.Errorf("failed to reorder entries: %w", err)
	}

	s.LogInfo(ctx, "Entries reordered", slog.Time("entry_date", date), slog.Int("count", len(ordinals)))
	return nil
}

// ReorderLineItems rewrites the LineNo sequence of one side of an entry.
func (s *entryService) ReorderLineItems(ctx context.Context, entryID string, side domain.EntrySide, orderedLineItemIDs []string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		return err
	}
	if side != domain.Debit && side != domain.Credit {
		return fmt.Errorf("%w: unknown side %s", apperrors.ErrValidation, side)
	}

	current, err := s.entryRepo.ListLineItemOrdinals(ctx, entryID, side)
	if err != nil {
		return fmt.Errorf("failed to list line item ordinals: %w", err)
	}
	if len(current) == 0 {
		return fmt.Errorf("%w: entry %s has no %s items", apperrors.ErrNotFound, entryID, side)
	}

	existingIDs := make([]string, 0, len(current))
	for id := range current {
		existingIDs = append(existingIDs, id)
	}
	ordinals, err := accounting.Resequence(existingIDs, orderedLineItemIDs)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	err = s.RetryOnConflict(ctx, func() error {
		return s.entryRepo.UpdateLineItemOrdinals(ctx, entryID, side, ordinals, requestingUserID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reorder line items", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to reorder line items: %w", err)
	}

	s.LogInfo(ctx, "Line items reordered", slog.String("entry_id", entryID), slog.String("side", string(side)))
	return nil
}

// FindOrderHoles returns the dates within the period whose entry ordinals are
// not a contiguous 1..N run, sorted ascending.
func (s *entryService) FindOrderHoles(ctx context.Context, period domain.Period, requestingUserID string) ([]time.Time, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleViewer); err != nil {
		return nil, err
	}

	byDate, err := s.entryRepo.ListEntryOrdinalsByPeriod(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entry ordinals by period")
		return nil, fmt.Errorf("failed to list entry ordinals: %w", err)
	}

	holes := make([]time.Time, 0)
	for date, ordinals := range byDate {
		if accounting.HasOrderHole(ordinals) {
			holes = append(holes, date)
		}
	}
	sort.Slice(holes, func(i, j int) bool { return holes[i].Before(holes[j]) })
	return holes, nil
}

// buildLineItems converts line item requests into domain items, assigning
// per-side LineNo ordinals in request order and validating balance, account
// state and offset references.
func (s *entryService) buildLineItems(ctx context.Context, entryID string, reqs []dto.CreateLineItemRequest, userID string, now time.Time) ([]domain.LineItem, error) {
	accountIDs := make([]string, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.AccountID]; !ok {
			seen[r.AccountID] = struct{}{}
			accountIDs = append(accountIDs, r.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	items := make([]domain.LineItem, 0, len(reqs))
	nextLineNo := map[domain.EntrySide]int{domain.Debit: 1, domain.Credit: 1}
	for _, r := range reqs {
		account, ok := accounts[r.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, r.AccountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}

		item := domain.LineItem{
			LineItemID:   uuid.NewString(),
			EntryID:      entryID,
			AccountID:    r.AccountID,
			CurrencyCode: r.CurrencyCode,
			Side:         r.Side,
			Amount:       r.Amount,
			Description:  r.Description,
			LineNo:       nextLineNo[r.Side],
			OriginalID:   r.OriginalID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		nextLineNo[r.Side]++

		if r.OriginalID != nil {
			if err := s.validateOffsetReference(ctx, account, item); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}

	if err := accounting.ValidateEntryBalance(items); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return items, nil
}

// validateOffsetReference checks an offset leg against the original it claims
// to settle: same account and currency, opposite side, original not itself an
// offset, and the offset must not push the original's net balance negative.
func (s *entryService) validateOffsetReference(ctx context.Context, account domain.Account, item domain.LineItem) error {
	if !account.NeedsOffset {
		return fmt.Errorf("%w: account %s does not track offsets", apperrors.ErrValidation, account.Code)
	}

	original, err := s.entryRepo.FindLineItemByID(ctx, *item.OriginalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: original line item %s", apperrors.ErrNotFound, *item.OriginalID)
		}
		return fmt.Errorf("failed to load original line item: %w", err)
	}
	if original.OriginalID != nil {
		return fmt.Errorf("%w: line item %s is itself an offset", apperrors.ErrValidation, original.LineItemID)
	}
	if original.AccountID != item.AccountID || original.CurrencyCode != item.CurrencyCode {
		return fmt.Errorf("%w: offset must target the same account and currency as its original", apperrors.ErrValidation)
	}
	if original.Side != item.Side.Opposite() {
		return fmt.Errorf("%w: offset must sit on the opposite side of its original", apperrors.ErrValidation)
	}

	offsets, err := s.offsetRepo.FindOffsets(ctx, item.AccountID, item.CurrencyCode)
	if err != nil {
		return fmt.Errorf("failed to load offsets: %w", err)
	}
	statuses := accounting.NetBalances([]domain.LineItem{*original}, offsets)
	if len(statuses) == 1 && item.Amount.GreaterThan(statuses[0].Net) {
		return fmt.Errorf("%w: offset %s exceeds the original's net balance %s",
			apperrors.ErrValidation, item.Amount.String(), statuses[0].Net.String())
	}
	return nil
}

// ensureNotReferenced rejects rewriting or deleting a line item other entries
// point at as their original.
func (s *entryService) ensureNotReferenced(ctx context.Context, li domain.LineItem) error {
	if li.OriginalID != nil {
		return nil
	}
	offsets, err := s.offsetRepo.FindOffsets(ctx, li.AccountID, li.CurrencyCode)
	if err != nil {
		return fmt.Errorf("failed to load offsets: %w", err)
	}
	for _, off := range offsets {
		if off.EntryID == li.EntryID {
			continue
		}
		if off.OriginalID != nil && *off.OriginalID == li.LineItemID {
			return fmt.Errorf("%w: line item %s is referenced as an original by entry %s",
				apperrors.ErrValidation, li.LineItemID, off.EntryID)
		}
	}
	return nil
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
