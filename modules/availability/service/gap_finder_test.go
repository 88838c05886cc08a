package service

import (
	"math/rand"
	"testing"
	"time"

	"tablebook/modules/availability/entity"
	restentity "tablebook/modules/restaurant/entity"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 14, hour, min, 0, 0, time.UTC)
}

func iv(startHour, startMin, endHour, endMin int) entity.TimeInterval {
	return entity.TimeInterval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestFindGapsBasic(t *testing.T) {
	g := NewGapFinder()
	window := iv(20, 0, 23, 45)
	busy := []entity.TimeInterval{iv(20, 30, 21, 15)}

	gaps := g.FindGaps(window, busy, 30*time.Minute)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d: %v", len(gaps), gaps)
	}
	if !gaps[0].Start.Equal(at(20, 0)) || !gaps[0].End.Equal(at(20, 30)) {
		t.Errorf("first gap = [%v, %v)", gaps[0].Start, gaps[0].End)
	}
	if !gaps[1].Start.Equal(at(21, 15)) || !gaps[1].End.Equal(at(23, 45)) {
		t.Errorf("second gap = [%v, %v)", gaps[1].Start, gaps[1].End)
	}
}

func TestFindGapsMinDurationFiltersShortGaps(t *testing.T) {
	g := NewGapFinder()
	window := iv(20, 0, 22, 0)
	busy := []entity.TimeInterval{iv(20, 30, 21, 15)}

	gaps := g.FindGaps(window, busy, 60*time.Minute)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d: %v", len(gaps), gaps)
	}
	if !gaps[0].Start.Equal(at(21, 15)) {
		t.Errorf("gap start = %v, want 21:15", gaps[0].Start)
	}
}

func TestFindGapsTouchingBusyLeavesBoundaryFree(t *testing.T) {
	g := NewGapFinder()
	window := iv(18, 0, 22, 0)
	// Busy ends exactly where the next booking could start
	busy := []entity.TimeInterval{iv(18, 0, 20, 0)}

	gaps := g.FindGaps(window, busy, 2*time.Hour)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if !gaps[0].Start.Equal(at(20, 0)) || !gaps[0].End.Equal(at(22, 0)) {
		t.Errorf("gap = [%v, %v), want [20:00, 22:00)", gaps[0].Start, gaps[0].End)
	}
}

func TestFindGapsOverlappingAndOutOfOrderBusy(t *testing.T) {
	g := NewGapFinder()
	window := iv(18, 0, 23, 0)
	busy := []entity.TimeInterval{
		iv(21, 0, 22, 0),
		iv(19, 0, 20, 30),
		iv(20, 0, 21, 30), // overlaps both neighbors
		iv(8, 0, 9, 0),    // entirely outside the window
	}

	gaps := g.FindGaps(window, busy, 15*time.Minute)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d: %v", len(gaps), gaps)
	}
	if !gaps[0].Start.Equal(at(18, 0)) || !gaps[0].End.Equal(at(19, 0)) {
		t.Errorf("first gap = [%v, %v)", gaps[0].Start, gaps[0].End)
	}
	if !gaps[1].Start.Equal(at(22, 0)) || !gaps[1].End.Equal(at(23, 0)) {
		t.Errorf("second gap = [%v, %v)", gaps[1].Start, gaps[1].End)
	}
}

func TestFindGapsFullyBooked(t *testing.T) {
	g := NewGapFinder()
	window := iv(20, 0, 22, 0)
	busy := []entity.TimeInterval{iv(19, 0, 23, 0)}

	if gaps := g.FindGaps(window, busy, 15*time.Minute); len(gaps) != 0 {
		t.Fatalf("expected no gaps, got %v", gaps)
	}
}

// No returned gap may overlap any busy interval, whatever the busy set is
func TestFindGapsNeverOverlapBusy(t *testing.T) {
	g := NewGapFinder()
	window := iv(10, 0, 23, 0)
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		busy := make([]entity.TimeInterval, 0, 8)
		for i := 0; i < rng.Intn(8); i++ {
			start := rng.Intn(14 * 4) // quarter hours from 10:00
			length := 1 + rng.Intn(12)
			s := at(10, 0).Add(time.Duration(start) * 15 * time.Minute)
			busy = append(busy, entity.TimeInterval{
				Start: s,
				End:   s.Add(time.Duration(length) * 15 * time.Minute),
			})
		}

		for _, gap := range g.FindGaps(window, busy, 15*time.Minute) {
			if !window.Contains(gap) {
				t.Fatalf("gap %v escapes window", gap)
			}
			for _, b := range busy {
				if gap.Overlaps(b) {
					t.Fatalf("gap %v overlaps busy %v (busy set %v)", gap, b, busy)
				}
			}
		}
	}
}

func TestGapsForTableMergesWindows(t *testing.T) {
	g := NewGapFinder()
	windows := []entity.TimeInterval{iv(18, 0, 22, 0), iv(11, 30, 14, 0)}
	busy := []entity.TimeInterval{iv(12, 0, 13, 0)}

	gaps := g.GapsForTable(windows, busy, 30*time.Minute)
	if len(gaps) != 3 {
		t.Fatalf("expected 3 gaps, got %d: %v", len(gaps), gaps)
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i].Start.Before(gaps[i-1].Start) {
			t.Fatalf("gaps not sorted by start: %v", gaps)
		}
	}
	if !gaps[0].Start.Equal(at(11, 30)) {
		t.Errorf("first gap starts at %v, want 11:30", gaps[0].Start)
	}
}

func TestComboGaps(t *testing.T) {
	g := NewGapFinder()

	perTable := [][]entity.TimeInterval{
		{iv(18, 0, 21, 0)},
		{iv(19, 0, 22, 0), iv(12, 0, 13, 0)},
	}
	gaps := g.ComboGaps(perTable, 60*time.Minute)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 shared gap, got %d: %v", len(gaps), gaps)
	}
	if !gaps[0].Start.Equal(at(19, 0)) || !gaps[0].End.Equal(at(21, 0)) {
		t.Errorf("shared gap = [%v, %v)", gaps[0].Start, gaps[0].End)
	}

	// One member with no gaps empties the combination
	perTable = [][]entity.TimeInterval{
		{iv(18, 0, 21, 0)},
		{},
		{iv(18, 0, 21, 0)},
	}
	if gaps := g.ComboGaps(perTable, 15*time.Minute); len(gaps) != 0 {
		t.Fatalf("expected no gaps, got %v", gaps)
	}
}

func TestResolveWindowsWeekdayAndZone(t *testing.T) {
	g := NewGapFinder()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	windows := []restentity.ServiceWindow{
		{Weekday: 6, StartTime: "18:00", EndTime: "22:00"}, // Saturday
		{Weekday: 6, StartTime: "11:30", EndTime: "14:00"},
		{Weekday: 0, StartTime: "10:00", EndTime: "15:00"}, // Sunday, inactive
		{Weekday: 6, StartTime: "bogus", EndTime: "22:00"}, // skipped
	}

	// 2026-03-14 is a Saturday
	day := time.Date(2026, time.March, 14, 0, 0, 0, 0, loc)
	resolved := g.ResolveWindows(windows, day, loc)
	if len(resolved) != 2 {
		t.Fatalf("expected 2 windows, got %d: %v", len(resolved), resolved)
	}

	// 18:00 New York is 22:00 UTC (EDT, UTC-4)
	want := time.Date(2026, time.March, 14, 22, 0, 0, 0, time.UTC)
	if !resolved[1].Start.Equal(want) {
		t.Errorf("evening window starts %v, want %v", resolved[1].Start, want)
	}
	if !resolved[0].Start.Before(resolved[1].Start) {
		t.Error("windows not sorted by start")
	}
}
