package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

const DefaultRecurrenceSpan = 4

var (
	ErrInvalidRecurrence = errors.New("model: invalid recurrence")
	ErrInvalidSpan       = errors.New("model: invalid recurrence span")
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// ValidForTask reports whether r may be attached to a task. Tasks only repeat
// daily or weekly.
func (r Recurrence) ValidForTask() bool {
	return r == RecurrenceNone || r == RecurrenceDaily || r == RecurrenceWeekly
}

// ParseRecurrence accepts any casing; an empty string means none.
func ParseRecurrence(raw string) (Recurrence, error) {
	v := Recurrence(strings.ToLower(strings.TrimSpace(raw)))
	if v == "" {
		return RecurrenceNone, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, raw)
	}
	return v, nil
}

// Occurrences materializes span start times for an interval beginning at
// start. A non-recurring interval yields exactly one occurrence. Monthly
// occurrences roll forward one calendar month at a time and are clamped to the
// last day of months that lack the starting day.
func (r Recurrence) Occurrences(start time.Time, span int) ([]time.Time, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecurrence, r)
	}
	if r == RecurrenceNone {
		return []time.Time{start}, nil
	}
	if span <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSpan, span)
	}

	opt := rrule.ROption{
		Count:   span,
		Dtstart: start,
	}
	switch r {
	case RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
	case RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
		if day := start.Day(); day > 28 {
			days := make([]int, 0, day-27)
			for d := 28; d <= day; d++ {
				days = append(days, d)
			}
			opt.Bymonthday = days
			opt.Bysetpos = []int{-1}
		}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("model: build recurrence rule: %w", err)
	}
	out := rule.All()
	// rrule drops sub-second precision from dtstart.
	for i := range out {
		out[i] = out[i].Add(time.Duration(start.Nanosecond()))
	}
	return out, nil
}

// Next returns the start of the successor of a task completed at now.
func (r Recurrence) Next(now time.Time) (time.Time, bool) {
	switch r {
	case RecurrenceDaily:
		return now.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return now.AddDate(0, 0, 7), true
	default:
		return time.Time{}, false
	}
}
