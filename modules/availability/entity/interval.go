package entity

import "time"

// TimeInterval is a half-open span [Start, End) of absolute UTC instants.
// Two intervals that touch at a boundary do not overlap.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTimeInterval(start, end time.Time) TimeInterval {
	return TimeInterval{Start: start.UTC(), End: end.UTC()}
}

// IsValid reports whether the interval is non-empty
func (t TimeInterval) IsValid() bool {
	return t.End.After(t.Start)
}

// Overlaps reports whether two half-open intervals share any instant
func (t TimeInterval) Overlaps(o TimeInterval) bool {
	return t.Start.Before(o.End) && o.Start.Before(t.End)
}

// Intersect returns the common span of two intervals, valid only when non-empty
func (t TimeInterval) Intersect(o TimeInterval) (TimeInterval, bool) {
	start := t.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := t.End
	if o.End.Before(end) {
		end = o.End
	}
	out := TimeInterval{Start: start, End: end}
	return out, out.IsValid()
}

// Contains reports whether o lies fully inside t
func (t TimeInterval) Contains(o TimeInterval) bool {
	return !o.Start.Before(t.Start) && !o.End.After(t.End)
}

func (t TimeInterval) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

func (t TimeInterval) DurationMinutes() int {
	return int(t.End.Sub(t.Start) / time.Minute)
}
