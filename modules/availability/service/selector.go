package service

import (
	"sort"

	"tablebook/modules/availability/entity"
)

// Selector imposes a deterministic total order over candidates. It is a pure
// function of its input: identical candidate sets, in any order, produce
// identical output.
type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

// less is the total order:
//  1. any single beats any combo
//  2. singles: earlier start, then smaller table id
//  3. combos: fewer tables, then earlier start, then smallest member id
func (s *Selector) less(a, b entity.Candidate) bool {
	if a.Kind != b.Kind {
		return a.Kind == entity.CandidateSingle
	}
	if a.Kind == entity.CandidateCombo && len(a.TableIDs) != len(b.TableIDs) {
		return len(a.TableIDs) < len(b.TableIDs)
	}
	if !a.Interval.Start.Equal(b.Interval.Start) {
		return a.Interval.Start.Before(b.Interval.Start)
	}
	// TableIDs are sorted, so index 0 is the smallest member
	return a.TableIDs[0].String() < b.TableIDs[0].String()
}

// Order returns a new slice sorted into the total order
func (s *Selector) Order(candidates []entity.Candidate) []entity.Candidate {
	out := make([]entity.Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return s.less(out[i], out[j])
	})
	return out
}

// Best returns the single best candidate, or false when none exists
func (s *Selector) Best(candidates []entity.Candidate) (entity.Candidate, bool) {
	if len(candidates) == 0 {
		return entity.Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if s.less(c, best) {
			best = c
		}
	}
	return best, true
}
