package service

import (
	"fmt"
	"sort"
	"time"

	"tablebook/modules/availability/entity"
	restentity "tablebook/modules/restaurant/entity"
)

// GapFinder computes the maximal free intervals of a table (or a table
// combination) inside the active service windows of a day. All arithmetic is
// half-open: a busy interval ending at 20:00 leaves 20:00 itself free.
type GapFinder struct{}

func NewGapFinder() *GapFinder {
	return &GapFinder{}
}

// ResolveWindows turns the restaurant's "HH:mm" service windows for the
// weekday of date into absolute UTC intervals. date carries the calendar day
// in the restaurant's zone; malformed or empty windows are skipped.
func (g *GapFinder) ResolveWindows(windows []restentity.ServiceWindow, date time.Time, loc *time.Location) []entity.TimeInterval {
	local := date.In(loc)
	weekday := int(local.Weekday())

	resolved := make([]entity.TimeInterval, 0, len(windows))
	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		start, err := resolveClock(w.StartTime, local, loc)
		if err != nil {
			continue
		}
		end, err := resolveClock(w.EndTime, local, loc)
		if err != nil {
			continue
		}
		iv := entity.NewTimeInterval(start, end)
		if !iv.IsValid() {
			continue
		}
		resolved = append(resolved, iv)
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Start.Before(resolved[j].Start)
	})
	return resolved
}

// ResolveClock builds the UTC instant for an "HH:mm" time-of-day on the same
// calendar day as local, interpreted in loc.
func resolveClock(clock string, local time.Time, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return time.Date(local.Year(), local.Month(), local.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}

// FindGaps returns every maximal free interval inside window that is at least
// minDuration long, given the busy intervals of one table. Busy intervals may
// overlap each other and extend past the window; output is sorted by start.
func (g *GapFinder) FindGaps(window entity.TimeInterval, busy []entity.TimeInterval, minDuration time.Duration) []entity.TimeInterval {
	if !window.IsValid() {
		return nil
	}

	// Clamp busy intervals to the window, dropping the ones outside it
	clamped := make([]entity.TimeInterval, 0, len(busy))
	for _, b := range busy {
		if iv, ok := b.Intersect(window); ok {
			clamped = append(clamped, iv)
		}
	}
	sort.Slice(clamped, func(i, j int) bool {
		return clamped[i].Start.Before(clamped[j].Start)
	})

	gaps := make([]entity.TimeInterval, 0)
	cursor := window.Start
	for _, b := range clamped {
		if cursor.Before(b.Start) {
			gap := entity.TimeInterval{Start: cursor, End: b.Start}
			if gap.Duration() >= minDuration {
				gaps = append(gaps, gap)
			}
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(window.End) {
		gap := entity.TimeInterval{Start: cursor, End: window.End}
		if gap.Duration() >= minDuration {
			gaps = append(gaps, gap)
		}
	}

	return gaps
}

// GapsForTable concatenates the gaps of every active window and re-sorts by
// start, so output is deterministic regardless of input ordering.
func (g *GapFinder) GapsForTable(windows []entity.TimeInterval, busy []entity.TimeInterval, minDuration time.Duration) []entity.TimeInterval {
	gaps := make([]entity.TimeInterval, 0)
	for _, w := range windows {
		gaps = append(gaps, g.FindGaps(w, busy, minDuration)...)
	}
	sort.Slice(gaps, func(i, j int) bool {
		return gaps[i].Start.Before(gaps[j].Start)
	})
	return gaps
}

// ComboGaps intersects the per-table gap sets of a combination. A table with
// no gaps empties the whole combination.
func (g *GapFinder) ComboGaps(perTable [][]entity.TimeInterval, minDuration time.Duration) []entity.TimeInterval {
	if len(perTable) == 0 {
		return nil
	}

	acc := perTable[0]
	for _, next := range perTable[1:] {
		if len(acc) == 0 || len(next) == 0 {
			return nil
		}
		intersected := make([]entity.TimeInterval, 0)
		for _, a := range acc {
			for _, b := range next {
				if iv, ok := a.Intersect(b); ok {
					intersected = append(intersected, iv)
				}
			}
		}
		acc = intersected
	}

	out := make([]entity.TimeInterval, 0, len(acc))
	for _, iv := range acc {
		if iv.Duration() >= minDuration {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
