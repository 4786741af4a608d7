package pgsql

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/models"
)

func TestPendingOffsetsByOriginal(t *testing.T) {
	origA := "orig-a"
	origB := "orig-b"
	items := []models.LineItem{
		{LineItemID: "li-1", Amount: decimal.NewFromInt(30), OriginalID: &origA},
		{LineItemID: "li-2", Amount: decimal.NewFromInt(20), OriginalID: &origA},
		{LineItemID: "li-3", Amount: decimal.NewFromInt(40), OriginalID: &origB},
		{LineItemID: "li-4", Amount: decimal.NewFromInt(99)}, // plain leg, no original
	}

	pending := pendingOffsetsByOriginal(items)

	// Two legs against the same original are checked as their sum, not one
	// at a time.
	assert.Len(t, pending, 2)
	assert.True(t, pending[origA].Equal(decimal.NewFromInt(50)))
	assert.True(t, pending[origB].Equal(decimal.NewFromInt(40)))
}

func TestPendingOffsetsByOriginalEmpty(t *testing.T) {
	items := []models.LineItem{
		{LineItemID: "li-1", Amount: decimal.NewFromInt(10)},
		{LineItemID: "li-2", Amount: decimal.NewFromInt(10)},
	}

	assert.Empty(t, pendingOffsetsByOriginal(items))
}

func TestPendingOffsetsFromPairs(t *testing.T) {
	pairs := []domain.MatchPair{
		{
			Original: domain.LineItem{LineItemID: "orig-a"},
			Offset:   domain.LineItem{LineItemID: "off-1", Amount: decimal.NewFromInt(25)},
		},
		{
			Original: domain.LineItem{LineItemID: "orig-b"},
			Offset:   domain.LineItem{LineItemID: "off-2", Amount: decimal.NewFromInt(75)},
		},
	}

	pending := pendingOffsetsFromPairs(pairs)

	assert.Len(t, pending, 2)
	assert.True(t, pending["orig-a"].Equal(decimal.NewFromInt(25)))
	assert.True(t, pending["orig-b"].Equal(decimal.NewFromInt(75)))
}
