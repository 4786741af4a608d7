package dto

import (
	"time"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest defines one debit/credit leg of a new journal entry.
type CreateLineItemRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	Side         domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description"`
	// OriginalID references the line item this leg offsets; only valid when
	// the account is flagged needsOffset.
	OriginalID *string `json:"originalID"`
}

// CreateEntryRequest defines the data needed to create a journal entry.
type CreateEntryRequest struct {
	Date      time.Time               `json:"date" binding:"required" time_format:"2006-01-02"`
	Note      string                  `json:"note"`
	LineItems []CreateLineItemRequest `json:"lineItems" binding:"required,min=2,dive"`
}

// UpdateEntryRequest defines the data allowed for rewriting a journal entry.
// A nil LineItems leaves the existing items untouched (header-only edit).
type UpdateEntryRequest struct {
	Date      *time.Time              `json:"date" time_format:"2006-01-02"`
	Note      *string                 `json:"note"`
	LineItems []CreateLineItemRequest `json:"lineItems" binding:"omitempty,min=2,dive"`
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	From             *time.Time `form:"from" time_format:"2006-01-02"`
	To               *time.Time `form:"to" time_format:"2006-01-02"`
	Limit            int        `form:"limit"`
	NextToken        *string    `form:"nextToken"`
	IncludeLineItems bool       `form:"includeLineItems"`
}

// ReorderEntriesRequest submits an explicit new ordering for a date's entries.
type ReorderEntriesRequest struct {
	Date     time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	EntryIDs []string  `json:"entryIDs" binding:"required,min=1"`
}

// ReorderLineItemsRequest submits a new ordering for one side of an entry.
type ReorderLineItemsRequest struct {
	Side        domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	LineItemIDs []string         `json:"lineItemIDs" binding:"required,min=1"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	LineItemID   string           `json:"lineItemID"`
	EntryID      string           `json:"entryID"`
	AccountID    string           `json:"accountID"`
	AccountCode  string           `json:"accountCode,omitempty"`
	CurrencyCode string           `json:"currencyCode"`
	Side         domain.EntrySide `json:"side"`
	Amount       decimal.Decimal  `json:"amount"`
	Description  string           `json:"description"`
	LineNo       int              `json:"lineNo"`
	OriginalID   *string          `json:"originalID,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID   string             `json:"entryID"`
	EntryDate time.Time          `json:"entryDate"`
	EntryNo   int                `json:"entryNo"`
	Note      string             `json:"note"`
	LineItems []LineItemResponse `json:"lineItems,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	CreatedBy string             `json:"createdBy"`
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// OrderHolesResponse lists the dates whose entry ordinals need resequencing.
type OrderHolesResponse struct {
	Dates []time.Time `json:"dates"`
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO.
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		LineItemID:   li.LineItemID,
		EntryID:      li.EntryID,
		AccountID:    li.AccountID,
		AccountCode:  li.AccountCode,
		CurrencyCode: li.CurrencyCode,
		Side:         li.Side,
		Amount:       li.Amount,
		Description:  li.Description,
		LineNo:       li.LineNo,
		OriginalID:   li.OriginalID,
	}
}

// ToLineItemResponses converts a slice of domain line items.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i := range items {
		responses[i] = ToLineItemResponse(&items[i])
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:   e.EntryID,
		EntryDate: e.EntryDate,
		EntryNo:   e.EntryNo,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		CreatedBy: e.CreatedBy,
	}
	if len(e.LineItems) > 0 {
		resp.LineItems = ToLineItemResponses(e.LineItems)
	}
	return resp
}
