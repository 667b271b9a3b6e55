package model

import (
	"errors"
	"testing"
	"time"
)

func TestOccurrencesWeeklySpan(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	list, err := RecurrenceWeekly.Occurrences(start, 4)
	if err != nil {
		t.Fatalf("weekly occurrences failed: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if gap := list[i].Sub(list[i-1]); gap != 7*24*time.Hour {
			t.Fatalf("occurrence %d spaced %s, want 168h", i, gap)
		}
	}
}

func TestOccurrencesDaily(t *testing.T) {
	start := time.Date(2026, 2, 27, 18, 30, 0, 0, time.Local)
	list, err := RecurrenceDaily.Occurrences(start, 3)
	if err != nil {
		t.Fatalf("daily occurrences failed: %v", err)
	}
	want := []string{"2026-02-27 18:30", "2026-02-28 18:30", "2026-03-01 18:30"}
	for i := range want {
		if got := list[i].Format("2006-01-02 15:04"); got != want[i] {
			t.Fatalf("daily[%d] got %s want %s", i, got, want[i])
		}
	}
}

func TestOccurrencesMonthlyWrapsDecember(t *testing.T) {
	start := time.Date(2026, 11, 15, 10, 0, 0, 0, time.Local)
	list, err := RecurrenceMonthly.Occurrences(start, 3)
	if err != nil {
		t.Fatalf("monthly occurrences failed: %v", err)
	}
	want := []string{"2026-11-15 10:00", "2026-12-15 10:00", "2027-01-15 10:00"}
	for i := range want {
		if got := list[i].Format("2006-01-02 15:04"); got != want[i] {
			t.Fatalf("monthly[%d] got %s want %s", i, got, want[i])
		}
	}
}

func TestOccurrencesMonthlyClampsToMonthEnd(t *testing.T) {
	start := time.Date(2026, 1, 31, 8, 0, 0, 0, time.Local)
	list, err := RecurrenceMonthly.Occurrences(start, 3)
	if err != nil {
		t.Fatalf("monthly occurrences failed: %v", err)
	}
	want := []string{"2026-01-31", "2026-02-28", "2026-03-31"}
	for i := range want {
		if got := list[i].Format("2006-01-02"); got != want[i] {
			t.Fatalf("monthly[%d] got %s want %s", i, got, want[i])
		}
	}
}

func TestOccurrencesNoneIsSingle(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	list, err := RecurrenceNone.Occurrences(start, 4)
	if err != nil {
		t.Fatalf("none occurrences failed: %v", err)
	}
	if len(list) != 1 || !list[0].Equal(start) {
		t.Fatalf("unexpected occurrences: %v", list)
	}
}

func TestOccurrencesRejectsBadSpan(t *testing.T) {
	_, err := RecurrenceWeekly.Occurrences(time.Now(), 0)
	if !errors.Is(err, ErrInvalidSpan) {
		t.Fatalf("expected ErrInvalidSpan, got %v", err)
	}
}

func TestParseRecurrence(t *testing.T) {
	cases := []struct {
		in   string
		want Recurrence
	}{
		{"", RecurrenceNone},
		{"Weekly", RecurrenceWeekly},
		{" daily ", RecurrenceDaily},
		{"MONTHLY", RecurrenceMonthly},
	}
	for _, tc := range cases {
		got, err := ParseRecurrence(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := ParseRecurrence("yearly"); !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence, got %v", err)
	}
	if RecurrenceMonthly.ValidForTask() {
		t.Fatal("monthly must not be valid for tasks")
	}
}
