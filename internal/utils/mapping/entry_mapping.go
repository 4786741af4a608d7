package mapping

import (
	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/models"
)

// ToModelEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		EntryDate:   d.EntryDate,
		EntryNo:     d.EntryNo,
		Note:        d.Note,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryDate:   m.EntryDate,
		EntryNo:     m.EntryNo,
		Note:        m.Note,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntrySlice converts a slice of model JournalEntries to domain ones
func ToDomainEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntry(m)
	}
	return ds
}

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:   d.LineItemID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		CurrencyCode: d.CurrencyCode,
		Side:         models.EntrySide(d.Side),
		Amount:       d.Amount,
		Description:  d.Description,
		LineNo:       d.LineNo,
		OriginalID:   d.OriginalID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem,
// carrying the joined read-side columns along.
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:   m.LineItemID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		CurrencyCode: m.CurrencyCode,
		Side:         domain.EntrySide(m.Side),
		Amount:       m.Amount,
		Description:  m.Description,
		LineNo:       m.LineNo,
		OriginalID:   m.OriginalID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		EntryDate:    m.EntryDate,
		EntryNo:      m.EntryNo,
		AccountCode:  m.AccountCode,
	}
}

// ToDomainLineItemSlice converts a slice of model LineItems to domain ones
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}
