package service

import (
	"math/rand"
	"testing"
	"time"

	"tablebook/modules/availability/entity"

	"github.com/google/uuid"
)

func candidate(kind entity.CandidateKind, start time.Time, ids ...uuid.UUID) entity.Candidate {
	return entity.NewCandidate(kind, ids,
		entity.TimeInterval{Start: start, End: start.Add(90 * time.Minute)}, 2, 4)
}

func TestSelectorSingleBeatsCombo(t *testing.T) {
	s := NewSelector()
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	c := uuid.MustParse("cccccccc-0000-0000-0000-000000000000")

	// The combo starts earlier but a single always wins
	combo := candidate(entity.CandidateCombo, at(18, 0), b, c)
	single := candidate(entity.CandidateSingle, at(21, 0), a)

	best, ok := s.Best([]entity.Candidate{combo, single})
	if !ok {
		t.Fatal("expected a best candidate")
	}
	if best.Kind != entity.CandidateSingle {
		t.Errorf("best kind = %s, want single", best.Kind)
	}
}

func TestSelectorSinglesByStartThenID(t *testing.T) {
	s := NewSelector()
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")

	later := candidate(entity.CandidateSingle, at(20, 0), a)
	earlier := candidate(entity.CandidateSingle, at(19, 0), b)
	sameTimeSmaller := candidate(entity.CandidateSingle, at(19, 0), a)

	ordered := s.Order([]entity.Candidate{later, earlier, sameTimeSmaller})
	if !ordered[0].Interval.Start.Equal(at(19, 0)) || ordered[0].TableIDs[0] != a {
		t.Errorf("first = %v at %v", ordered[0].TableIDs, ordered[0].Interval.Start)
	}
	if ordered[1].TableIDs[0] != b {
		t.Errorf("second = %v", ordered[1].TableIDs)
	}
	if ordered[2].TableIDs[0] != a || !ordered[2].Interval.Start.Equal(at(20, 0)) {
		t.Errorf("third = %v at %v", ordered[2].TableIDs, ordered[2].Interval.Start)
	}
}

func TestSelectorCombosBySizeThenStartThenMember(t *testing.T) {
	s := NewSelector()
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	c := uuid.MustParse("cccccccc-0000-0000-0000-000000000000")
	d := uuid.MustParse("dddddddd-0000-0000-0000-000000000000")

	big := candidate(entity.CandidateCombo, at(18, 0), a, b, c)
	lateSmall := candidate(entity.CandidateCombo, at(20, 0), c, d)
	earlySmall := candidate(entity.CandidateCombo, at(18, 0), b, d)
	earlySmallLower := candidate(entity.CandidateCombo, at(18, 0), a, d)

	ordered := s.Order([]entity.Candidate{big, lateSmall, earlySmall, earlySmallLower})
	if len(ordered[0].TableIDs) != 2 || ordered[0].TableIDs[0] != a {
		t.Errorf("first combo = %v", ordered[0].TableIDs)
	}
	if ordered[1].TableIDs[0] != b {
		t.Errorf("second combo = %v", ordered[1].TableIDs)
	}
	if !ordered[2].Interval.Start.Equal(at(20, 0)) {
		t.Errorf("third combo starts %v", ordered[2].Interval.Start)
	}
	if len(ordered[3].TableIDs) != 3 {
		t.Errorf("largest combo must sort last, got %v", ordered[3].TableIDs)
	}
}

// Shuffling the input must never change the output order
func TestSelectorOrderIndependent(t *testing.T) {
	s := NewSelector()

	base := make([]entity.Candidate, 0, 20)
	for i := 0; i < 10; i++ {
		base = append(base, candidate(entity.CandidateSingle,
			at(18, 0).Add(time.Duration(i)*15*time.Minute), uuid.New()))
	}
	for i := 0; i < 10; i++ {
		base = append(base, candidate(entity.CandidateCombo,
			at(18, 0).Add(time.Duration(i)*15*time.Minute), uuid.New(), uuid.New()))
	}

	want := s.Order(base)
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]entity.Candidate, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := s.Order(shuffled)
		for i := range want {
			if want[i].Interval.Start != got[i].Interval.Start ||
				want[i].TableIDs[0] != got[i].TableIDs[0] {
				t.Fatalf("trial %d: order diverged at %d", trial, i)
			}
		}
	}
}

func TestSelectorBestEmpty(t *testing.T) {
	s := NewSelector()
	if _, ok := s.Best(nil); ok {
		t.Fatal("expected no best candidate for an empty set")
	}
}
