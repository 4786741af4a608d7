package accounting

import (
	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetBalances computes, for each original line item, the sum of its recorded
// offsets and the resulting net balance. The offsets slice holds line items
// whose OriginalID is set; offsets referencing an unknown original are
// ignored. Results are returned in chronological order of the originals.
func NetBalances(originals []domain.LineItem, offsets []domain.LineItem) []domain.OriginalStatus {
	ordered := make([]domain.LineItem, len(originals))
	copy(ordered, originals)
	SortChronological(ordered)

	offsetSums := make(map[string]decimal.Decimal, len(originals))
	for _, off := range offsets {
		if off.OriginalID == nil {
			continue
		}
		offsetSums[*off.OriginalID] = offsetSums[*off.OriginalID].Add(off.Amount)
	}

	statuses := make([]domain.OriginalStatus, 0, len(ordered))
	for _, orig := range ordered {
		sum := offsetSums[orig.LineItemID]
		statuses = append(statuses, domain.OriginalStatus{
			Item:      orig,
			OffsetSum: sum,
			Net:       orig.Amount.Sub(sum),
		})
	}
	return statuses
}

// UnmatchedOriginals filters net-balance statuses down to those not yet fully
// offset (net > 0).
func UnmatchedOriginals(statuses []domain.OriginalStatus) []domain.OriginalStatus {
	unmatched := make([]domain.OriginalStatus, 0, len(statuses))
	for _, s := range statuses {
		if s.Net.IsPositive() {
			unmatched = append(unmatched, s)
		}
	}
	return unmatched
}

// MatchOffsets greedily pairs unmatched offset candidates with unmatched
// originals of exactly equal net amount. Both sides are processed in
// chronological order (entry date, same-day ordinal, creation time, lowest id)
// to bias toward FIFO settlement; the id comparison is the documented
// tie-break when several originals share an amount and date.
//
// The function is pure and idempotent: running it twice over the same inputs
// yields the same pairs. Candidates with no equal-amount original are returned
// in UnmatchedOffsets; originals left over are returned in UnmatchedOriginals.
func MatchOffsets(accountID, currencyCode string, unmatched []domain.OriginalStatus, candidates []domain.LineItem) domain.MatchProposal {
	orderedCandidates := make([]domain.LineItem, len(candidates))
	copy(orderedCandidates, candidates)
	SortChronological(orderedCandidates)

	remaining := make([]domain.OriginalStatus, len(unmatched))
	copy(remaining, unmatched)

	proposal := domain.MatchProposal{
		AccountID:    accountID,
		CurrencyCode: currencyCode,
	}

	taken := make([]bool, len(remaining))
	for _, cand := range orderedCandidates {
		matched := false
		for i := range remaining {
			if taken[i] {
				continue
			}
			if remaining[i].Net.Equal(cand.Amount) {
				proposal.Pairs = append(proposal.Pairs, domain.MatchPair{
					Original: remaining[i].Item,
					Offset:   cand,
				})
				taken[i] = true
				matched = true
				break
			}
		}
		if !matched {
			proposal.UnmatchedOffsets = append(proposal.UnmatchedOffsets, cand)
		}
	}

	for i := range remaining {
		if !taken[i] {
			proposal.UnmatchedOriginals = append(proposal.UnmatchedOriginals, remaining[i])
		}
	}
	return proposal
}
