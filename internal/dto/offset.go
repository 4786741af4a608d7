package dto

import (
	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OriginalStatusResponse is an unmatched original with its net balance.
type OriginalStatusResponse struct {
	Item      LineItemResponse `json:"item"`
	OffsetSum decimal.Decimal  `json:"offsetSum"`
	Net       decimal.Decimal  `json:"net"`
}

// MatchPairResponse is a proposed (original, offset) pair.
type MatchPairResponse struct {
	Original LineItemResponse `json:"original"`
	Offset   LineItemResponse `json:"offset"`
}

// MatchProposalResponse is the output of the matching algorithm.
type MatchProposalResponse struct {
	AccountID          string                   `json:"accountID"`
	CurrencyCode       string                   `json:"currencyCode"`
	Pairs              []MatchPairResponse      `json:"pairs"`
	UnmatchedOriginals []OriginalStatusResponse `json:"unmatchedOriginals"`
	UnmatchedOffsets   []LineItemResponse       `json:"unmatchedOffsets"`
}

// ConfirmMatchPair identifies one pair to confirm by line item ids.
type ConfirmMatchPair struct {
	OriginalID string `json:"originalID" binding:"required"`
	OffsetID   string `json:"offsetID" binding:"required"`
}

// ConfirmMatchesRequest submits a batch of pairs for atomic confirmation.
type ConfirmMatchesRequest struct {
	Pairs []ConfirmMatchPair `json:"pairs" binding:"required,min=1,dive"`
}

// ToOriginalStatusResponse converts a domain.OriginalStatus.
func ToOriginalStatusResponse(s *domain.OriginalStatus) OriginalStatusResponse {
	return OriginalStatusResponse{
		Item:      ToLineItemResponse(&s.Item),
		OffsetSum: s.OffsetSum,
		Net:       s.Net,
	}
}

// ToMatchProposalResponse converts a domain.MatchProposal.
func ToMatchProposalResponse(p *domain.MatchProposal) MatchProposalResponse {
	resp := MatchProposalResponse{
		AccountID:    p.AccountID,
		CurrencyCode: p.CurrencyCode,
	}
	for i := range p.Pairs {
		resp.Pairs = append(resp.Pairs, MatchPairResponse{
			Original: ToLineItemResponse(&p.Pairs[i].Original),
			Offset:   ToLineItemResponse(&p.Pairs[i].Offset),
		})
	}
	for i := range p.UnmatchedOriginals {
		resp.UnmatchedOriginals = append(resp.UnmatchedOriginals, ToOriginalStatusResponse(&p.UnmatchedOriginals[i]))
	}
	resp.UnmatchedOffsets = ToLineItemResponses(p.UnmatchedOffsets)
	return resp
}
