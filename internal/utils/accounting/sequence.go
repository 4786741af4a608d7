package accounting

import (
	"fmt"
	"sort"
)

// HasOrderHole reports whether the given ordinals fail to form a contiguous
// 1..N sequence. Duplicates and gaps both count as holes; they arise from
// deletions and must be repaired by an explicit resequencing operation.
func HasOrderHole(ordinals []int) bool {
	sorted := make([]int, len(ordinals))
	copy(sorted, ordinals)
	sort.Ints(sorted)
	for i, n := range sorted {
		if n != i+1 {
			return true
		}
	}
	return false
}

// Resequence maps each id in requestedOrder to ordinal index+1. The requested
// order must be a permutation of existingIDs: an omitted or unknown id makes
// the whole request invalid and nothing is assigned.
func Resequence(existingIDs []string, requestedOrder []string) (map[string]int, error) {
	if len(requestedOrder) != len(existingIDs) {
		return nil, fmt.Errorf("requested order has %d ids, expected %d", len(requestedOrder), len(existingIDs))
	}

	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	ordinals := make(map[string]int, len(requestedOrder))
	for i, id := range requestedOrder {
		if _, ok := existing[id]; !ok {
			return nil, fmt.Errorf("unknown id %s in requested order", id)
		}
		if _, dup := ordinals[id]; dup {
			return nil, fmt.Errorf("duplicate id %s in requested order", id)
		}
		ordinals[id] = i + 1
	}
	return ordinals, nil
}
