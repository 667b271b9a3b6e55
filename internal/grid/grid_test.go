package grid

import (
	"testing"
	"time"

	"github.com/sandeepkv93/planner/internal/model"
)

var monday = time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)

func at(day time.Time, hour, minute int) time.Time {
	return model.NewClock(hour, minute).On(day)
}

func rowAt(t *testing.T, g Grid, label string) Row {
	t.Helper()
	for _, r := range g.Rows {
		if r.Label() == label {
			return r
		}
	}
	t.Fatalf("no row labeled %s", label)
	return Row{}
}

func TestBuildWeekShape(t *testing.T) {
	g := Build(nil, Options{Start: at(monday, 0, 0).AddDate(0, 0, 3), Now: at(monday, 12, 0)})
	if len(g.Columns) != 7 || !g.Columns[0].Date.Equal(monday) {
		t.Fatalf("expected week starting Monday, got %d columns from %s", len(g.Columns), g.Columns[0].Date)
	}
	if len(g.Rows) != 36 || g.Rows[0].Label() != "06:00" || g.Rows[35].Label() != "23:30" {
		t.Fatalf("unexpected rows: %d first=%s", len(g.Rows), g.Rows[0].Label())
	}
	if !g.Columns[0].Today || g.Columns[1].Today {
		t.Fatal("only Monday should be today")
	}

	fine := Build(nil, Options{Start: monday, Granularity: 15, Now: monday})
	if len(fine.Rows) != 72 {
		t.Fatalf("expected 72 quarter-hour rows, got %d", len(fine.Rows))
	}
	if odd := Build(nil, Options{Start: monday, Granularity: 20, Now: monday}); odd.Granularity != 30 {
		t.Fatalf("unsupported granularity should fall back to 30, got %d", odd.Granularity)
	}
}

func TestBuildLabelsAndContinuation(t *testing.T) {
	events := []model.Event{
		{ID: "a", Title: "Essay", Start: at(monday, 9, 0), End: at(monday, 10, 0)},
		{ID: "b", Title: "Gym", Start: at(monday, 10, 0), End: at(monday, 10, 30)},
	}
	g := Build(events, Options{Start: monday, Now: at(monday, 7, 0)})

	cases := []struct {
		label string
		kind  Kind
		title string
	}{
		{"08:30", KindEmpty, ""},
		{"09:00", KindStart, "Essay"},
		{"09:30", KindContinuation, "Essay"},
		{"10:00", KindStart, "Gym"},
		{"10:30", KindEmpty, ""},
	}
	for _, tc := range cases {
		cell := rowAt(t, g, tc.label).Cells[0]
		if cell.Kind != tc.kind || cell.Title != tc.title {
			t.Fatalf("%s: got kind=%d title=%q, want kind=%d title=%q", tc.label, cell.Kind, cell.Title, tc.kind, tc.title)
		}
	}
	if cell := rowAt(t, g, "09:00").Cells[1]; cell.Kind != KindEmpty {
		t.Fatalf("Tuesday must be empty, got %+v", cell)
	}
}

func TestBuildFirstMatchWins(t *testing.T) {
	events := []model.Event{
		{ID: "a", Title: "First", Start: at(monday, 9, 0), End: at(monday, 10, 0)},
		{ID: "b", Title: "Second", Start: at(monday, 9, 30), End: at(monday, 11, 0)},
	}
	g := Build(events, Options{Start: monday, Now: at(monday, 7, 0)})
	if c := rowAt(t, g, "09:30").Cells[0]; c.Title != "First" || c.Kind != KindContinuation {
		t.Fatalf("overlap should keep first event, got %+v", c)
	}
	if c := rowAt(t, g, "10:00").Cells[0]; c.Title != "Second" || c.Kind != KindStart {
		t.Fatalf("second event should start labeled at 10:00, got %+v", c)
	}
}

func TestBuildOnlyCountsStartDate(t *testing.T) {
	events := []model.Event{
		{ID: "late", Title: "Late show", Start: at(monday, 23, 0), End: at(monday.AddDate(0, 0, 1), 1, 0)},
	}
	g := Build(events, Options{Start: monday, Now: at(monday, 7, 0)})
	if c := rowAt(t, g, "23:30").Cells[0]; c.Kind != KindContinuation {
		t.Fatalf("expected continuation at 23:30, got %+v", c)
	}
	for _, r := range g.Rows {
		if r.Cells[1].Kind != KindEmpty {
			t.Fatalf("event must not spill into Tuesday, row %s = %+v", r.Label(), r.Cells[1])
		}
	}
}

func TestBuildStatusPrecedence(t *testing.T) {
	now := at(monday, 12, 15)
	events := []model.Event{
		{ID: "past", Title: "Past", Start: at(monday, 9, 0), End: at(monday, 10, 0), Completed: true},
		{ID: "done", Title: "Done", Start: at(monday, 12, 0), End: at(monday, 13, 0), Completed: true},
		{ID: "later", Title: "Later", Start: at(monday, 15, 0), End: at(monday, 16, 0)},
	}
	g := Build(events, Options{Start: monday, Now: now})
	want := map[string]model.Status{
		"09:00": model.StatusPast,
		"12:00": model.StatusCompleted,
		"15:00": model.StatusUpcoming,
	}
	for label, status := range want {
		if got := rowAt(t, g, label).Cells[0].Status; got != status {
			t.Fatalf("%s: status %s, want %s", label, got, status)
		}
	}
	if !rowAt(t, g, "12:00").Current || rowAt(t, g, "12:30").Current {
		t.Fatal("only the 12:00 slot should be current")
	}
}

func TestBuildSingleDay(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)
	events := []model.Event{
		{ID: "a", Title: "Standup", Start: at(wednesday, 9, 0), End: at(wednesday, 9, 15)},
	}
	g := Build(events, Options{Start: at(wednesday, 14, 0), Days: 1, Granularity: 15, Now: at(wednesday, 9, 5)})
	if len(g.Columns) != 1 || !g.Columns[0].Date.Equal(wednesday) {
		t.Fatalf("expected a single Wednesday column, got %+v", g.Columns)
	}
	c := rowAt(t, g, "09:00").Cells[0]
	if c.Kind != KindStart || c.Status != model.StatusOngoing {
		t.Fatalf("unexpected cell: %+v", c)
	}
	if rowAt(t, g, "09:15").Cells[0].Kind != KindEmpty {
		t.Fatal("end is exclusive")
	}
}

func TestToggle(t *testing.T) {
	if Toggle(30) != 15 || Toggle(15) != 30 || Toggle(0) != 15 {
		t.Fatal("toggle should alternate between 15 and 30")
	}
}

func TestBuildWindow(t *testing.T) {
	cases := []struct {
		name        string
		opts        Options
		first, last string
	}{
		{"zero window uses default", Options{Start: monday, Days: 7, Granularity: 30, Now: monday}, "06:00", "23:30"},
		{"explicit window", Options{Start: monday, Days: 1, Granularity: 30, DayStart: 8, DayEnd: 20, Now: monday}, "08:00", "19:30"},
		{"end before start falls back", Options{Start: monday, Days: 1, Granularity: 15, DayStart: 10, DayEnd: 9, Now: monday}, "10:00", "23:45"},
	}
	for _, tc := range cases {
		g := Build(nil, tc.opts)
		first, last := g.Rows[0].Label(), g.Rows[len(g.Rows)-1].Label()
		if first != tc.first || last != tc.last {
			t.Fatalf("%s: window %s-%s, want %s-%s", tc.name, first, last, tc.first, tc.last)
		}
	}
}
