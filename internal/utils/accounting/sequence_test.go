package accounting_test

import (
	"testing"

	"github.com/openacct/openacct/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasOrderHole(t *testing.T) {
	tests := []struct {
		name     string
		ordinals []int
		want     bool
	}{
		{name: "empty", ordinals: nil, want: false},
		{name: "contiguous", ordinals: []int{1, 2, 3}, want: false},
		{name: "unsorted but contiguous", ordinals: []int{3, 1, 2}, want: false},
		{name: "duplicate from delete", ordinals: []int{1, 2, 2}, want: true},
		{name: "gap", ordinals: []int{1, 3, 4}, want: true},
		{name: "starts past one", ordinals: []int{2, 3}, want: true},
		{name: "single at one", ordinals: []int{1}, want: false},
		{name: "single past one", ordinals: []int{4}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.HasOrderHole(tt.ordinals))
		})
	}
}

func TestResequence(t *testing.T) {
	existing := []string{"entry_a", "entry_b", "entry_c"}

	ordinals, err := accounting.Resequence(existing, []string{"entry_b", "entry_a", "entry_c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"entry_b": 1, "entry_a": 2, "entry_c": 3}, ordinals)
}

func TestResequence_AlwaysContiguous(t *testing.T) {
	existing := []string{"w", "x", "y", "z"}

	ordinals, err := accounting.Resequence(existing, []string{"z", "x", "w", "y"})
	require.NoError(t, err)

	seen := make([]int, 0, len(ordinals))
	for _, n := range ordinals {
		seen = append(seen, n)
	}
	assert.False(t, accounting.HasOrderHole(seen))
}

func TestResequence_RejectsOmission(t *testing.T) {
	_, err := accounting.Resequence([]string{"a", "b", "c"}, []string{"a", "b"})
	assert.Error(t, err)
}

func TestResequence_RejectsUnknownID(t *testing.T) {
	_, err := accounting.Resequence([]string{"a", "b"}, []string{"a", "nope"})
	assert.Error(t, err)
}

func TestResequence_RejectsDuplicate(t *testing.T) {
	_, err := accounting.Resequence([]string{"a", "b"}, []string{"a", "a"})
	assert.Error(t, err)
}
