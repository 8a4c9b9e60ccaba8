package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time within a day, seconds precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Trailing garbage is
// rejected: a mistyped config value must fail startup, not half-parse.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	var tod TimeOfDay
	fields := []*int{&tod.Hour, &tod.Minute, &tod.Second}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
		*fields[i] = n
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 || tod.Second < 0 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return tod, nil
}

// Seconds returns the offset from midnight in seconds.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Window is one weekday's open/close range, inclusive on both ends.
type Window struct {
	Opens  TimeOfDay
	Closes TimeOfDay
}

// Calendar maps weekdays to operating windows. A missing weekday means the
// facility is closed all day. The zero value is a calendar with no windows.
type Calendar struct {
	windows map[time.Weekday]Window
}

// NewCalendar validates the window set and builds a calendar. It rejects
// windows that close before they open. An empty window set is rejected too:
// a sampler that can never fire is a configuration mistake.
func NewCalendar(windows map[time.Weekday]Window) (*Calendar, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("operating calendar has no windows configured")
	}
	for day, w := range windows {
		if w.Opens.Seconds() > w.Closes.Seconds() {
			return nil, fmt.Errorf("%s: opens %s after closes %s", day, w.Opens, w.Closes)
		}
	}
	copied := make(map[time.Weekday]Window, len(windows))
	for day, w := range windows {
		copied[day] = w
	}
	return &Calendar{windows: copied}, nil
}

// IsOpen reports whether now falls inside the operating window for its
// weekday. Weekdays with no window are closed all day.
func (c *Calendar) IsOpen(now time.Time) bool {
	w, ok := c.windows[now.Weekday()]
	if !ok {
		return false
	}
	sec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return w.Opens.Seconds() <= sec && sec <= w.Closes.Seconds()
}

// Window returns the operating window for a weekday, if configured.
func (c *Calendar) Window(day time.Weekday) (Window, bool) {
	w, ok := c.windows[day]
	return w, ok
}

// NextOpening returns the next instant the facility opens at or after now.
// If today's window has not opened yet it returns today's opening; otherwise
// it scans the next seven days. ok is false only when no weekday has a
// window, which NewCalendar already rejects for calendars built from config.
func (c *Calendar) NextOpening(now time.Time) (time.Time, bool) {
	if w, ok := c.windows[now.Weekday()]; ok {
		opening := atTimeOfDay(now, w.Opens)
		if now.Before(opening) {
			return opening, true
		}
	}
	for i := 1; i <= 7; i++ {
		day := now.AddDate(0, 0, i)
		if w, ok := c.windows[day.Weekday()]; ok {
			return atTimeOfDay(day, w.Opens), true
		}
	}
	return time.Time{}, false
}

func atTimeOfDay(day time.Time, tod TimeOfDay) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, tod.Second, 0, day.Location())
}
