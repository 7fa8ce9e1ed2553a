package plan

import "time"

// Week is a closed planning interval; both endpoints count.
type Week struct {
	Start time.Time `json:"week_start"`
	End   time.Time `json:"week_end"`
}

// NewWeek builds a week from explicit bounds, normalized to whole days.
func NewWeek(start, end time.Time) Week {
	return Week{Start: day(start), End: day(end)}
}

// WeekOf derives the Monday-aligned 7-day week containing ref.
func WeekOf(ref time.Time) Week {
	d := day(ref)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := d.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// Contains reports whether t falls inside the week, endpoints inclusive.
func (w Week) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Label renders the week for result rows and decision payloads.
func (w Week) Label() string {
	return w.Start.Format(time.DateOnly) + " to " + w.End.Format(time.DateOnly)
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
