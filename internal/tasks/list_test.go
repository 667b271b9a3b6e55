package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/storage"
)

func newTestList(t *testing.T) (*List, string) {
	t.Helper()
	dir := t.TempDir()
	return NewList(storage.NewJSONRepository(dir), nil), dir
}

func TestAddValidatesAndPersists(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	task, err := list.Add(ctx, AddInput{Title: " Essay ", Day: model.DayMonday, DurationMinutes: 60})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.ID == "" || task.Title != "Essay" || task.Recurrence != model.RecurrenceNone || task.Done || task.Scheduled {
		t.Fatalf("unexpected task: %+v", task)
	}

	cases := []struct {
		name string
		in   AddInput
		want error
	}{
		{"zero duration", AddInput{Title: "x", Day: model.DayMonday}, model.ErrInvalidDuration},
		{"bad day", AddInput{Title: "x", Day: "someday", DurationMinutes: 10}, model.ErrInvalidDay},
		{"monthly", AddInput{Title: "x", DurationMinutes: 10, Recurrence: model.RecurrenceMonthly}, model.ErrInvalidRecurrence},
	}
	for _, tc := range cases {
		if _, err := list.Add(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	tasks, err := list.Load(ctx)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("expected only the valid task stored, got %d err=%v", len(tasks), err)
	}
}

func TestListingOrdersByWeekday(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()
	for _, in := range []AddInput{
		{Title: "Laundry", DurationMinutes: 30},
		{Title: "Report", Day: model.DayFriday, DurationMinutes: 90},
		{Title: "Essay", Day: model.DayMonday, DurationMinutes: 60},
		{Title: "Groceries", Day: model.DayMonday, DurationMinutes: 45},
	} {
		if _, err := list.Add(ctx, in); err != nil {
			t.Fatalf("add %s: %v", in.Title, err)
		}
	}

	entries, err := list.Listing(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	want := []string{"Essay", "Groceries", "Report", "Laundry"}
	for i, e := range entries {
		if e.Task.Title != want[i] || e.Index != i+1 {
			t.Fatalf("entry %d = %d %s, want %d %s", i, e.Index, e.Task.Title, i+1, want[i])
		}
	}

	task, err := list.Resolve(ctx, 3)
	if err != nil || task.Title != "Report" {
		t.Fatalf("resolve 3: %+v err=%v", task, err)
	}
	if _, err := list.Resolve(ctx, 5); !errors.Is(err, ErrBadIndex) {
		t.Fatalf("expected ErrBadIndex, got %v", err)
	}
}

func TestModifyKeepsUnsetFields(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()
	task, err := list.Add(ctx, AddInput{Title: "Essay", Day: model.DayMonday, DurationMinutes: 60, Recurrence: model.RecurrenceWeekly})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	unassigned := model.DayUnassigned
	got, err := list.Modify(ctx, task.ID, ModifyInput{Day: &unassigned, DurationMinutes: 90})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if got.Title != "Essay" || got.Day != model.DayUnassigned || got.DurationMinutes != 90 || got.Recurrence != model.RecurrenceWeekly {
		t.Fatalf("unexpected modified task: %+v", got)
	}

	if _, err := list.Modify(ctx, task.ID, ModifyInput{DurationMinutes: -5}); !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := list.Modify(ctx, "missing", ModifyInput{Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveAppendsSuccessor(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()
	task, err := list.Add(ctx, AddInput{Title: "Run", Day: model.DayMonday, DurationMinutes: 30, Recurrence: model.RecurrenceDaily})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	next := model.Task{Title: "Run", Day: model.DayTuesday, DurationMinutes: 30, Recurrence: model.RecurrenceDaily}
	removed, err := list.Remove(ctx, task.ID, &next)
	if err != nil || removed.ID != task.ID {
		t.Fatalf("remove: %+v err=%v", removed, err)
	}
	tasks, err := list.Load(ctx)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("expected successor only, got %+v err=%v", tasks, err)
	}
	if tasks[0].ID == "" || tasks[0].ID == task.ID || tasks[0].Day != model.DayTuesday {
		t.Fatalf("unexpected successor: %+v", tasks[0])
	}
}

func TestLoadUpgradesLegacyDocument(t *testing.T) {
	list, dir := newTestList(t)
	doc := `[{"title":"Essay","day":"monday","time":60,"done":false,"scheduled":false,"recurrence":"none"}]`
	if err := os.WriteFile(filepath.Join(dir, storage.TasksFile), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx := context.Background()
	first, err := list.Load(ctx)
	if err != nil || len(first) != 1 || first[0].ID == "" {
		t.Fatalf("expected upgraded task, got %+v err=%v", first, err)
	}
	again, err := list.Get(ctx, first[0].ID)
	if err != nil || again.Title != "Essay" {
		t.Fatalf("id was not persisted: %+v err=%v", again, err)
	}
}

func TestCorruptTasksDocument(t *testing.T) {
	list, dir := newTestList(t)
	if err := os.WriteFile(filepath.Join(dir, storage.TasksFile), []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tasks, err := list.Load(context.Background())
	if !errors.Is(err, storage.ErrCorrupt) || len(tasks) != 0 {
		t.Fatalf("expected empty + ErrCorrupt, got %v err=%v", tasks, err)
	}
}
