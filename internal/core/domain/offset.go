package domain

import "github.com/shopspring/decimal"

// OriginalStatus is an original line item annotated with the sum of its
// recorded offsets and the resulting net (unoffset) balance.
type OriginalStatus struct {
	Item      LineItem        `json:"item"`
	OffsetSum decimal.Decimal `json:"offsetSum"`
	Net       decimal.Decimal `json:"net"` // Item.Amount - OffsetSum, never negative
}

// FullyOffset reports whether the original has been completely settled.
func (s OriginalStatus) FullyOffset() bool {
	return s.Net.IsZero()
}

// MatchPair proposes settling Original with Offset. Amounts are equal by
// construction; confirmation re-checks defensively.
type MatchPair struct {
	Original LineItem `json:"original"`
	Offset   LineItem `json:"offset"`
}

// MatchProposal is the outcome of running offset matching over one
// account+currency scope: proposed pairs plus the residual unmatched items
// on both sides.
type MatchProposal struct {
	AccountID          string           `json:"accountID"`
	CurrencyCode       string           `json:"currencyCode"`
	Pairs              []MatchPair      `json:"pairs"`
	UnmatchedOriginals []OriginalStatus `json:"unmatchedOriginals"`
	UnmatchedOffsets   []LineItem       `json:"unmatchedOffsets"`
}
