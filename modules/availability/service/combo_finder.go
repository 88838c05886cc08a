package service

import (
	"sort"

	"tablebook/core/constants"
	restentity "tablebook/modules/restaurant/entity"
)

// ComboFinder enumerates table combinations of size 2..6 whose summed
// capacity range admits the party, without walking the full power set.
type ComboFinder struct{}

func NewComboFinder() *ComboFinder {
	return &ComboFinder{}
}

// ComboCapacity derives the admissible party-size range of a combination.
// Capacities are additive; seating geometry is not modeled.
func ComboCapacity(tables []restentity.Table) (minCap, maxCap int) {
	for _, t := range tables {
		minCap += t.MinCapacity
		maxCap += t.MaxCapacity
	}
	return minCap, maxCap
}

// FindCombos returns every combination of 2..6 tables with
// minCapacity <= partySize <= maxCapacity. No table repeats within a
// combination and no combination repeats across the result.
func (f *ComboFinder) FindCombos(tables []restentity.Table, partySize int) [][]restentity.Table {
	if partySize <= 0 || len(tables) < constants.ComboMinTables {
		return nil
	}

	// Larger tables first so capacity pruning cuts branches early.
	// Ties break on id for deterministic output.
	sorted := make([]restentity.Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].MaxCapacity != sorted[j].MaxCapacity {
			return sorted[i].MaxCapacity > sorted[j].MaxCapacity
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	// remaining[i] = total max capacity of sorted[i:]
	remaining := make([]int, len(sorted)+1)
	for i := len(sorted) - 1; i >= 0; i-- {
		remaining[i] = remaining[i+1] + sorted[i].MaxCapacity
	}

	var found [][]restentity.Table
	current := make([]restentity.Table, 0, constants.ComboMaxTables)

	var backtrack func(start, minSum, maxSum int)
	backtrack = func(start, minSum, maxSum int) {
		if len(current) >= constants.ComboMinTables && minSum <= partySize && partySize <= maxSum {
			combo := make([]restentity.Table, len(current))
			copy(combo, current)
			found = append(found, combo)
			// Keep searching: adding members can yield other valid combos.
		}
		if len(current) == constants.ComboMaxTables {
			return
		}
		for i := start; i < len(sorted); i++ {
			// Even taking every remaining table cannot reach the party
			if maxSum+remaining[i] < partySize {
				return
			}
			t := sorted[i]
			if minSum+t.MinCapacity > partySize {
				// Minimum occupancy already exceeds the party; deeper
				// branches only grow it further.
				continue
			}
			current = append(current, t)
			backtrack(i+1, minSum+t.MinCapacity, maxSum+t.MaxCapacity)
			current = current[:len(current)-1]
		}
	}

	backtrack(0, 0, 0)
	return found
}
