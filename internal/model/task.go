package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDay      = errors.New("model: invalid day")
	ErrInvalidDuration = errors.New("model: invalid task duration")
)

// Day is a weekday name in lower case, or DayUnassigned.
type Day string

const (
	DayMonday     Day = "monday"
	DayTuesday    Day = "tuesday"
	DayWednesday  Day = "wednesday"
	DayThursday   Day = "thursday"
	DayFriday     Day = "friday"
	DaySaturday   Day = "saturday"
	DaySunday     Day = "sunday"
	DayUnassigned Day = ""
)

// Week lists the days in display order, Monday first.
var Week = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

func (d Day) IsValid() bool {
	return d == DayUnassigned || d.Offset() >= 0
}

// Offset is the number of days from Monday, or -1 when unassigned.
func (d Day) Offset() int {
	for i, w := range Week {
		if w == d {
			return i
		}
	}
	return -1
}

func (d Day) String() string {
	if d == DayUnassigned {
		return "Unassigned"
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

func ParseDay(raw string) (Day, error) {
	v := Day(strings.ToLower(strings.TrimSpace(raw)))
	if v == "unassigned" {
		return DayUnassigned, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, raw)
	}
	return v, nil
}

// DayOf maps a calendar date to its Day.
func DayOf(t time.Time) Day {
	return Week[(int(t.Weekday())+6)%7]
}

// WeekStart returns midnight of the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -DayOf(t).Offset())
}

type Task struct {
	ID              string
	Title           string
	Day             Day
	DurationMinutes int
	Done            bool
	Scheduled       bool
	Recurrence      Recurrence
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Day.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDay, t.Day)
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, t.DurationMinutes)
	}
	if !t.Recurrence.ValidForTask() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, t.Recurrence)
	}
	return nil
}

func (t Task) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// Successor is the task appended when a recurring task is completed at now.
// The caller assigns the id.
func (t Task) Successor(now time.Time) (Task, bool) {
	next, ok := t.Recurrence.Next(now)
	if !ok {
		return Task{}, false
	}
	return Task{
		Title:           t.Title,
		Day:             DayOf(next),
		DurationMinutes: t.DurationMinutes,
		Recurrence:      t.Recurrence,
	}, true
}

func (t Task) Status() string {
	switch {
	case t.Scheduled:
		return "Scheduled"
	case t.Done:
		return "Done"
	default:
		return "Not Done"
	}
}
