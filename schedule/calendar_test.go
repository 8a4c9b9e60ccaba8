package schedule

import (
	"testing"
	"time"
)

func mustCalendar(t *testing.T, windows map[time.Weekday]Window) *Calendar {
	t.Helper()
	cal, err := NewCalendar(windows)
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}
	return cal
}

func tod(h, m int) TimeOfDay {
	return TimeOfDay{Hour: h, Minute: m}
}

// 2024-06-03 is a Monday.
func monday(h, m, s int) time.Time {
	return time.Date(2024, 6, 3, h, m, s, 0, time.UTC)
}

func TestIsOpenClosedAllDayWhenWeekdayMissing(t *testing.T) {
	cal := mustCalendar(t, map[time.Weekday]Window{
		time.Monday: {Opens: tod(6, 0), Closes: tod(23, 0)},
	})

	// Tuesday has no window: closed at every hour.
	tuesday := monday(0, 0, 0).AddDate(0, 0, 1)
	for h := 0; h < 24; h++ {
		at := time.Date(tuesday.Year(), tuesday.Month(), tuesday.Day(), h, 30, 0, 0, time.UTC)
		if cal.IsOpen(at) {
			t.Errorf("expected closed at %s", at)
		}
	}
}

func TestIsOpenInclusiveBounds(t *testing.T) {
	cal := mustCalendar(t, map[time.Weekday]Window{
		time.Monday: {Opens: tod(6, 0), Closes: tod(23, 0)},
	})

	cases := []struct {
		at   time.Time
		open bool
	}{
		{monday(6, 0, 0), true},   // exactly at opening
		{monday(23, 0, 0), true},  // exactly at closing
		{monday(5, 59, 59), false},
		{monday(23, 0, 1), false},
		{monday(12, 0, 0), true},
	}
	for _, tc := range cases {
		if got := cal.IsOpen(tc.at); got != tc.open {
			t.Errorf("IsOpen(%s) = %v, want %v", tc.at, got, tc.open)
		}
	}
}

func TestNextOpeningToday(t *testing.T) {
	cal := mustCalendar(t, map[time.Weekday]Window{
		time.Monday: {Opens: tod(6, 0), Closes: tod(23, 0)},
	})

	next, ok := cal.NextOpening(monday(4, 30, 0))
	if !ok {
		t.Fatal("expected an opening")
	}
	if want := monday(6, 0, 0); !next.Equal(want) {
		t.Errorf("NextOpening = %s, want %s", next, want)
	}
}

func TestNextOpeningScansForward(t *testing.T) {
	cal := mustCalendar(t, map[time.Weekday]Window{
		time.Thursday: {Opens: tod(11, 0), Closes: tod(19, 0)},
	})

	// Monday after opening time: the next configured day is Thursday.
	next, ok := cal.NextOpening(monday(12, 0, 0))
	if !ok {
		t.Fatal("expected an opening")
	}
	want := time.Date(2024, 6, 6, 11, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextOpening = %s, want %s", next, want)
	}
}

func TestNextOpeningWrapsToSameDayNextWeek(t *testing.T) {
	cal := mustCalendar(t, map[time.Weekday]Window{
		time.Monday: {Opens: tod(6, 0), Closes: tod(23, 0)},
	})

	// Monday after opening: the only window left is next Monday.
	next, ok := cal.NextOpening(monday(7, 0, 0))
	if !ok {
		t.Fatal("expected an opening")
	}
	want := time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextOpening = %s, want %s", next, want)
	}
}

func TestNewCalendarRejectsInvertedWindow(t *testing.T) {
	_, err := NewCalendar(map[time.Weekday]Window{
		time.Monday: {Opens: tod(23, 0), Closes: tod(6, 0)},
	})
	if err == nil {
		t.Fatal("expected error for window closing before it opens")
	}
}

func TestNewCalendarRejectsEmpty(t *testing.T) {
	if _, err := NewCalendar(nil); err == nil {
		t.Fatal("expected error for empty calendar")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("06:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	if got.Hour != 6 || got.Minute != 30 || got.Second != 0 {
		t.Errorf("got %+v", got)
	}

	withSeconds, err := ParseTimeOfDay("06:30:15")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	if withSeconds.Second != 15 {
		t.Errorf("got %+v", withSeconds)
	}

	for _, bad := range []string{"25:00", "12:61", "noon", "", "06", "06:00junk", "06:xx", "06:00:00:00"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
