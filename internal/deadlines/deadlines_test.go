package deadlines

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 8, 12, 15, 0, 0, 0, time.Local)

func TestAddKeepsSortedOrder(t *testing.T) {
	store := NewStore(t.TempDir(), func() time.Time { return now })
	inputs := []struct{ name, due string }{
		{"Essay", "September 1"},
		{"Quiz", "August 13"},
		{"Exam", "2026-08-20"},
	}
	for _, in := range inputs {
		if _, err := store.Add(in.name, in.due); err != nil {
			t.Fatalf("add %s: %v", in.name, err)
		}
	}
	list, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []Deadline{
		{Name: "Quiz", DueDate: "2026-08-13"},
		{Name: "Exam", DueDate: "2026-08-20"},
		{Name: "Essay", DueDate: "2026-09-01"},
	}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, list[i], want[i])
		}
	}

	removed, err := store.Delete(2)
	if err != nil || removed.Name != "Exam" {
		t.Fatalf("delete: %+v err=%v", removed, err)
	}
	if _, err := store.Delete(3); !errors.Is(err, ErrBadIndex) {
		t.Fatalf("expected ErrBadIndex, got %v", err)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	store := NewStore(t.TempDir(), func() time.Time { return now })
	if _, err := store.Add("Essay", "next week"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := store.Add("", "August 13"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestUrgency(t *testing.T) {
	cases := map[string]Urgency{
		"2026-08-11": UrgencyOverdue,
		"2026-08-12": UrgencyToday,
		"2026-08-13": UrgencyTomorrow,
		"2026-08-14": UrgencyLater,
	}
	for due, want := range cases {
		if got := (Deadline{Name: "x", DueDate: due}).UrgencyAt(now); got != want {
			t.Fatalf("%s: got %s want %s", due, got, want)
		}
	}
}
