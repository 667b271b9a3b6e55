package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("model: event start must be before end")
	ErrInvalidClock     = errors.New("model: invalid time of day")
)

type Event struct {
	ID         string
	Title      string
	Start      time.Time
	End        time.Time
	Recurrence Recurrence
	Completed  bool
	// TaskID links an event promoted from a task.
	TaskID string
	// SeriesID groups the occurrences materialized by one recurring add.
	SeriesID string
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if !e.Start.Before(e.End) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidTimeRange, e.Start.Format(time.DateTime), e.End.Format(time.DateTime))
	}
	if !e.Recurrence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, e.Recurrence)
	}
	return nil
}

// Overlaps is the half-open interval test: touching endpoints do not overlap.
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}

func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Status is the temporal state used for display styling.
type Status string

const (
	StatusPast      Status = "past"
	StatusCompleted Status = "completed"
	StatusOngoing   Status = "ongoing"
	StatusUpcoming  Status = "upcoming"
)

// StatusAt evaluates past, completed, ongoing, upcoming in that precedence.
func (e Event) StatusAt(now time.Time) Status {
	switch {
	case e.End.Before(now):
		return StatusPast
	case e.Completed:
		return StatusCompleted
	case !now.Before(e.Start):
		return StatusOngoing
	default:
		return StatusUpcoming
	}
}

var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04", "3 PM", "3PM"}

// Clock is a time of day in minutes after midnight.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

func ParseClock(raw string) (Clock, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return NewClock(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// On returns the instant of c on the date of day.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ParseDayTime parses "Monday 5:30 PM" into the matching date of the week
// starting at weekStart.
func ParseDayTime(raw string, weekStart time.Time) (time.Time, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("%w: expected \"<day> <time>\", got %q", ErrInvalidClock, raw)
	}
	day, err := ParseDay(fields[0])
	if err != nil {
		return time.Time{}, err
	}
	if day == DayUnassigned {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, fields[0])
	}
	clock, err := ParseClock(strings.Join(fields[1:], " "))
	if err != nil {
		return time.Time{}, err
	}
	return clock.On(WeekStart(weekStart).AddDate(0, 0, day.Offset())), nil
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
