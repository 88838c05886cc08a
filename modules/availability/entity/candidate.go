package entity

import (
	"sort"

	"github.com/google/uuid"
)

type CandidateKind string

const (
	CandidateSingle CandidateKind = "single"
	CandidateCombo  CandidateKind = "combo"
)

// Candidate is a proposed allocation: a table set plus the interval it would
// occupy. TableIDs are unique and kept sorted so selection is deterministic.
type Candidate struct {
	Kind        CandidateKind `json:"kind"`
	TableIDs    []uuid.UUID   `json:"table_ids"`
	Interval    TimeInterval  `json:"interval"`
	MinCapacity int           `json:"min_capacity"`
	MaxCapacity int           `json:"max_capacity"`
}

func NewCandidate(kind CandidateKind, tableIDs []uuid.UUID, interval TimeInterval, minCap, maxCap int) Candidate {
	ids := make([]uuid.UUID, len(tableIDs))
	copy(ids, tableIDs)
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return Candidate{
		Kind:        kind,
		TableIDs:    ids,
		Interval:    interval,
		MinCapacity: minCap,
		MaxCapacity: maxCap,
	}
}
