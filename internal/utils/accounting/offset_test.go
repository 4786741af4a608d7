package accounting_test

import (
	"testing"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsetOf(originalID, id string, d int, amount string) domain.LineItem {
	li := item(id, d, 1, domain.Credit, amount)
	li.OriginalID = &originalID
	return li
}

func TestNetBalances(t *testing.T) {
	originals := []domain.LineItem{
		item("orig-1", 1, 1, domain.Debit, "100"),
		item("orig-2", 2, 1, domain.Debit, "250"),
	}
	offsets := []domain.LineItem{
		offsetOf("orig-1", "off-1", 3, "40"),
		offsetOf("orig-1", "off-2", 4, "60"),
		offsetOf("orig-2", "off-3", 5, "100"),
	}

	statuses := accounting.NetBalances(originals, offsets)

	require.Len(t, statuses, 2)
	assert.Equal(t, "orig-1", statuses[0].Item.LineItemID)
	assert.Equal(t, "100", statuses[0].OffsetSum.String())
	assert.True(t, statuses[0].Net.IsZero())
	assert.True(t, statuses[0].FullyOffset())

	assert.Equal(t, "orig-2", statuses[1].Item.LineItemID)
	assert.Equal(t, "150", statuses[1].Net.String())
}

// A $100 original with no offsets is unmatched with net=$100; adding a $100
// offset removes it from the unmatched set.
func TestNetBalances_FullOffsetDisappears(t *testing.T) {
	l1 := item("L1", 1, 1, domain.Debit, "100")

	unmatched := accounting.UnmatchedOriginals(accounting.NetBalances([]domain.LineItem{l1}, nil))
	require.Len(t, unmatched, 1)
	assert.Equal(t, "100", unmatched[0].Net.String())

	l2 := offsetOf("L1", "L2", 2, "100")
	unmatched = accounting.UnmatchedOriginals(accounting.NetBalances([]domain.LineItem{l1}, []domain.LineItem{l2}))
	assert.Empty(t, unmatched)
}

func TestMatchOffsets_FIFOByDate(t *testing.T) {
	unmatched := accounting.NetBalances([]domain.LineItem{
		item("orig-late", 9, 1, domain.Debit, "100"),
		item("orig-early", 1, 1, domain.Debit, "100"),
	}, nil)
	candidates := []domain.LineItem{
		item("cand-1", 10, 1, domain.Credit, "100"),
	}

	proposal := accounting.MatchOffsets("acc-1", "USD", unmatched, candidates)

	require.Len(t, proposal.Pairs, 1)
	assert.Equal(t, "orig-early", proposal.Pairs[0].Original.LineItemID)
	assert.Equal(t, "cand-1", proposal.Pairs[0].Offset.LineItemID)
	require.Len(t, proposal.UnmatchedOriginals, 1)
	assert.Equal(t, "orig-late", proposal.UnmatchedOriginals[0].Item.LineItemID)
	assert.Empty(t, proposal.UnmatchedOffsets)
}

func TestMatchOffsets_EqualAmountOnly(t *testing.T) {
	unmatched := accounting.NetBalances([]domain.LineItem{
		item("orig-1", 1, 1, domain.Debit, "100"),
	}, nil)
	candidates := []domain.LineItem{
		item("cand-odd", 2, 1, domain.Credit, "99.99"),
	}

	proposal := accounting.MatchOffsets("acc-1", "USD", unmatched, candidates)

	assert.Empty(t, proposal.Pairs)
	require.Len(t, proposal.UnmatchedOffsets, 1)
	assert.Equal(t, "cand-odd", proposal.UnmatchedOffsets[0].LineItemID)
	require.Len(t, proposal.UnmatchedOriginals, 1)
}

// Partially offset originals are matched against their net, not their
// face amount.
func TestMatchOffsets_AgainstNet(t *testing.T) {
	unmatched := accounting.UnmatchedOriginals(accounting.NetBalances(
		[]domain.LineItem{item("orig-1", 1, 1, domain.Debit, "100")},
		[]domain.LineItem{offsetOf("orig-1", "off-1", 2, "30")},
	))
	candidates := []domain.LineItem{
		item("cand-70", 3, 1, domain.Credit, "70"),
	}

	proposal := accounting.MatchOffsets("acc-1", "USD", unmatched, candidates)

	require.Len(t, proposal.Pairs, 1)
	assert.Equal(t, "orig-1", proposal.Pairs[0].Original.LineItemID)
}

func TestMatchOffsets_DeterministicTieBreak(t *testing.T) {
	// Two originals with identical amount and date: lowest id wins.
	unmatched := accounting.NetBalances([]domain.LineItem{
		item("orig-b", 1, 1, domain.Debit, "50"),
		item("orig-a", 1, 1, domain.Debit, "50"),
	}, nil)
	candidates := []domain.LineItem{
		item("cand-1", 2, 1, domain.Credit, "50"),
	}

	first := accounting.MatchOffsets("acc-1", "USD", unmatched, candidates)
	second := accounting.MatchOffsets("acc-1", "USD", unmatched, candidates)

	require.Len(t, first.Pairs, 1)
	assert.Equal(t, "orig-a", first.Pairs[0].Original.LineItemID)
	assert.Equal(t, first, second)
}

func TestMatchOffsets_MultiplePairs(t *testing.T) {
	unmatched := accounting.NetBalances([]domain.LineItem{
		item("orig-1", 1, 1, domain.Debit, "10"),
		item("orig-2", 2, 1, domain.Debit, "20"),
		item("orig-3", 3, 1, domain.Debit, "10"),
	}, nil)
	candidates := []domain.LineItem{
		item("cand-10", 5, 1, domain.Credit, "10"),
		item("cand-20", 5, 2, domain.Credit, "20"),
		item("cand-10b", 5, 3, domain.Credit, "10"),
	}

	proposal := accounting.MatchOffsets("acc-1", "USD", unmatched, candidates)

	require.Len(t, proposal.Pairs, 3)
	assert.Equal(t, "orig-1", proposal.Pairs[0].Original.LineItemID)
	assert.Equal(t, "orig-2", proposal.Pairs[1].Original.LineItemID)
	assert.Equal(t, "orig-3", proposal.Pairs[2].Original.LineItemID)
	assert.Empty(t, proposal.UnmatchedOriginals)
	assert.Empty(t, proposal.UnmatchedOffsets)
}
