package plan

import (
	"testing"
	"time"
)

func TestWeekOfMondayAligned(t *testing.T) {
	cases := []struct {
		ref   string
		start string
		end   string
	}{
		{"2026-01-19", "2026-01-19", "2026-01-25"}, // a Monday
		{"2026-01-22", "2026-01-19", "2026-01-25"}, // mid-week
		{"2026-01-25", "2026-01-19", "2026-01-25"}, // Sunday belongs to the same week
	}
	for _, c := range cases {
		ref, _ := time.Parse(time.DateOnly, c.ref)
		w := WeekOf(ref)
		if w.Start.Format(time.DateOnly) != c.start || w.End.Format(time.DateOnly) != c.end {
			t.Errorf("WeekOf(%s) = [%s, %s], want [%s, %s]", c.ref,
				w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly), c.start, c.end)
		}
	}
}

func TestWeekContainsInclusive(t *testing.T) {
	w := testWeek()
	in := []string{"2026-01-19", "2026-01-22", "2026-01-25"}
	out := []string{"2026-01-18", "2026-01-26"}
	for _, s := range in {
		d, _ := time.Parse(time.DateOnly, s)
		if !w.Contains(d) {
			t.Errorf("Contains(%s) = false, want true", s)
		}
	}
	for _, s := range out {
		d, _ := time.Parse(time.DateOnly, s)
		if w.Contains(d) {
			t.Errorf("Contains(%s) = true, want false", s)
		}
	}
}

func TestWeekLabel(t *testing.T) {
	if got := testWeek().Label(); got != "2026-01-19 to 2026-01-25" {
		t.Errorf("Label = %q", got)
	}
}
