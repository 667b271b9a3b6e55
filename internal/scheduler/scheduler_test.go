package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/planner/internal/calendar"
	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/storage"
	"github.com/sandeepkv93/planner/internal/tasks"
)

var monday = time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)

func at(day time.Time, hour, minute int) time.Time {
	return model.NewClock(hour, minute).On(day)
}

type fixture struct {
	cal   *calendar.Store
	tasks *tasks.List
	sched *Scheduler
	now   time.Time
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{now: now}
	clock := func() time.Time { return f.now }
	repo := storage.NewJSONRepository(t.TempDir())
	f.cal = calendar.NewStore(repo, calendar.Options{Now: clock})
	f.tasks = tasks.NewList(repo, nil)
	f.sched = New(f.cal, f.tasks, Options{Policy: DefaultPolicy(), Now: clock})
	return f
}

func (f *fixture) addTask(t *testing.T, title string, day model.Day, minutes int, rec model.Recurrence) model.Task {
	t.Helper()
	task, err := f.tasks.Add(context.Background(), tasks.AddInput{Title: title, Day: day, DurationMinutes: minutes, Recurrence: rec})
	if err != nil {
		t.Fatalf("add task %s: %v", title, err)
	}
	return task
}

func (f *fixture) addEvent(t *testing.T, title string, start, end time.Time) {
	t.Helper()
	if _, err := f.cal.Add(context.Background(), calendar.AddInput{Title: title, Start: start, End: end}); err != nil {
		t.Fatalf("add event %s: %v", title, err)
	}
}

func (f *fixture) events(t *testing.T) []model.Event {
	t.Helper()
	events, err := f.cal.Load(context.Background())
	if err != nil {
		t.Fatalf("load events: %v", err)
	}
	return events
}

func TestScheduleEmptyCalendarUsesDefaultStart(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	ctx := context.Background()
	task := f.addTask(t, "Essay", model.DayMonday, 60, model.RecurrenceNone)

	ev, err := f.sched.Schedule(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !ev.Start.Equal(at(monday, 9, 0)) || !ev.End.Equal(at(monday, 10, 0)) {
		t.Fatalf("unexpected placement %s-%s", ev.Start, ev.End)
	}
	if ev.TaskID != task.ID || ev.Completed {
		t.Fatalf("unexpected event fields: %+v", ev)
	}
	got, err := f.tasks.Get(ctx, task.ID)
	if err != nil || !got.Scheduled {
		t.Fatalf("expected task scheduled, got %+v err=%v", got, err)
	}

	again, err := f.sched.Schedule(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	events := f.events(t)
	if len(events) != 1 || events[0].ID != again.ID || !again.Start.Equal(at(monday, 9, 0)) {
		t.Fatalf("rescheduling must replace the prior event, got %+v", events)
	}
}

func TestScheduleSkipsBookedSlots(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	f.addEvent(t, "Gym", at(monday, 9, 0), at(monday, 10, 0))
	task := f.addTask(t, "Laundry", model.DayMonday, 45, model.RecurrenceNone)

	ev, err := f.sched.Schedule(context.Background(), task.ID, nil)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !ev.Start.Equal(at(monday, 10, 0)) || !ev.End.Equal(at(monday, 10, 45)) {
		t.Fatalf("expected 10:00-10:45, got %s-%s", ev.Start.Format("15:04"), ev.End.Format("15:04"))
	}
	if len(f.events(t)) != 2 {
		t.Fatal("existing booking must be kept")
	}
}

func TestScheduleFullyBookedDay(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	f.addEvent(t, "Conference", at(monday, 9, 0), at(monday, 23, 30))
	task := f.addTask(t, "Essay", model.DayMonday, 30, model.RecurrenceNone)

	_, err := f.sched.Schedule(context.Background(), task.ID, nil)
	if !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("expected ErrNoFreeSlot, got %v", err)
	}
	got, _ := f.tasks.Get(context.Background(), task.ID)
	if got.Scheduled {
		t.Fatal("failed placement must not mark the task scheduled")
	}
	if len(f.events(t)) != 1 {
		t.Fatal("failed placement must not add events")
	}
}

func TestScheduleExplicitTime(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	ctx := context.Background()
	wednesday := monday.AddDate(0, 0, 2)
	f.addEvent(t, "Gym", at(wednesday, 14, 0), at(wednesday, 15, 0))
	task := f.addTask(t, "Essay", model.DayWednesday, 60, model.RecurrenceNone)

	clash := model.NewClock(14, 30)
	if _, err := f.sched.Schedule(ctx, task.ID, &clash); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	touching := model.NewClock(15, 0)
	ev, err := f.sched.Schedule(ctx, task.ID, &touching)
	if err != nil {
		t.Fatalf("back-to-back placement must be allowed: %v", err)
	}
	if !ev.Start.Equal(at(wednesday, 15, 0)) {
		t.Fatalf("unexpected start %s", ev.Start)
	}
}

func TestFindSlotWorkdayBooked(t *testing.T) {
	booked := []model.Event{{Title: "Workshop", Start: at(monday, 9, 0), End: at(monday, 17, 0)}}

	got, err := FindSlot(booked, monday, 30*time.Minute, DefaultPolicy(), at(monday, 7, 0))
	if err != nil {
		t.Fatalf("default policy: %v", err)
	}
	if !got.Equal(at(monday, 17, 0)) {
		t.Fatalf("expected the evening slot at 17:00, got %s", got.Format("15:04"))
	}

	office := DefaultPolicy()
	office.LatestStart = model.NewClock(16, 30)
	if _, err := FindSlot(booked, monday, 30*time.Minute, office, at(monday, 7, 0)); !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("expected ErrNoFreeSlot within office hours, got %v", err)
	}
}

func TestScheduleTodayRespectsNow(t *testing.T) {
	f := newFixture(t, at(monday, 12, 10))
	ctx := context.Background()
	task := f.addTask(t, "Essay", model.DayMonday, 60, model.RecurrenceNone)

	for _, clock := range []model.Clock{model.NewClock(10, 0), model.NewClock(12, 0)} {
		if _, err := f.sched.Schedule(ctx, task.ID, &clock); !errors.Is(err, ErrInPast) {
			t.Fatalf("explicit %s: expected ErrInPast, got %v", clock, err)
		}
	}
	ev, err := f.sched.Schedule(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !ev.Start.Equal(at(monday, 12, 0)) {
		t.Fatalf("expected search to begin at 12:00, got %s", ev.Start.Format("15:04"))
	}
}

func TestScheduleRequiresDay(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	task := f.addTask(t, "Someday", model.DayUnassigned, 30, model.RecurrenceNone)
	if _, err := f.sched.Schedule(context.Background(), task.ID, nil); !errors.Is(err, ErrNoDay) {
		t.Fatalf("expected ErrNoDay, got %v", err)
	}
	if _, err := f.sched.Schedule(context.Background(), "missing", nil); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected tasks.ErrNotFound, got %v", err)
	}
}

func TestDeleteTaskRemovesOnlyLinkedEvents(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	ctx := context.Background()
	f.addEvent(t, "Essay", at(monday, 18, 0), at(monday, 19, 0))
	task := f.addTask(t, "Essay", model.DayMonday, 60, model.RecurrenceNone)
	if _, err := f.sched.Schedule(ctx, task.ID, nil); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	_, n, err := f.sched.DeleteTask(ctx, task.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 linked event removed, got n=%d err=%v", n, err)
	}
	events := f.events(t)
	if len(events) != 1 || !events[0].Start.Equal(at(monday, 18, 0)) {
		t.Fatalf("same-titled manual event must survive, got %+v", events)
	}
	if _, err := f.tasks.Get(ctx, task.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("task should be gone, got %v", err)
	}
}

func TestDeleteUnscheduledTaskLeavesCalendar(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	f.addEvent(t, "Essay", at(monday, 9, 0), at(monday, 10, 0))
	task := f.addTask(t, "Essay", model.DayMonday, 60, model.RecurrenceNone)

	_, n, err := f.sched.DeleteTask(context.Background(), task.ID)
	if err != nil || n != 0 {
		t.Fatalf("expected no events removed, got n=%d err=%v", n, err)
	}
	if len(f.events(t)) != 1 {
		t.Fatal("calendar must be untouched")
	}
}

func TestUnscheduleClearsFlag(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	ctx := context.Background()
	task := f.addTask(t, "Essay", model.DayTuesday, 60, model.RecurrenceNone)
	if _, err := f.sched.Schedule(ctx, task.ID, nil); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	n, err := f.sched.Unschedule(ctx, task.ID)
	if err != nil || n != 1 {
		t.Fatalf("unschedule: n=%d err=%v", n, err)
	}
	got, _ := f.tasks.Get(ctx, task.ID)
	if got.Scheduled || len(f.events(t)) != 0 {
		t.Fatalf("expected clean state, task=%+v events=%d", got, len(f.events(t)))
	}
}

func TestCompleteRecurringTask(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	ctx := context.Background()
	task := f.addTask(t, "Run", model.DayMonday, 30, model.RecurrenceWeekly)
	if _, err := f.sched.Schedule(ctx, task.ID, nil); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	next, err := f.sched.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if next == nil || next.Day != model.DayMonday || next.Done || next.Scheduled {
		t.Fatalf("unexpected successor: %+v", next)
	}
	events := f.events(t)
	if len(events) != 1 || !events[0].Completed {
		t.Fatalf("expected linked event completed, got %+v", events)
	}
	all, err := f.tasks.Load(ctx)
	if err != nil || len(all) != 1 || all[0].ID == task.ID || all[0].Recurrence != model.RecurrenceWeekly {
		t.Fatalf("expected only the successor task, got %+v err=%v", all, err)
	}
}

func TestCompleteOneOffTask(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	task := f.addTask(t, "Essay", model.DayUnassigned, 30, model.RecurrenceNone)
	next, err := f.sched.CompleteTask(context.Background(), task.ID)
	if err != nil || next != nil {
		t.Fatalf("expected no successor, got %+v err=%v", next, err)
	}
	all, _ := f.tasks.Load(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected empty task list, got %+v", all)
	}
}

func TestPreviewDoesNotCommit(t *testing.T) {
	f := newFixture(t, at(monday, 7, 0))
	f.addEvent(t, "Gym", at(monday, 9, 0), at(monday, 10, 30))
	task := f.addTask(t, "Essay", model.DayMonday, 60, model.RecurrenceNone)

	start, err := f.sched.Preview(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !start.Equal(at(monday, 10, 30)) {
		t.Fatalf("expected 10:30, got %s", start.Format("15:04"))
	}
	if len(f.events(t)) != 1 {
		t.Fatal("preview must not add events")
	}
}

func TestFindSlot(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	busy := []model.Event{
		{Title: "a", Start: at(tuesday, 9, 0), End: at(tuesday, 9, 30)},
		{Title: "b", Start: at(tuesday, 10, 0), End: at(tuesday, 11, 0)},
	}
	cases := []struct {
		name   string
		day    time.Time
		length time.Duration
		now    time.Time
		want   time.Time
	}{
		{"fits the gap", tuesday, 30 * time.Minute, at(monday, 8, 0), at(tuesday, 9, 30)},
		{"too long for the gap", tuesday, 45 * time.Minute, at(monday, 8, 0), at(tuesday, 11, 0)},
		{"today after noon", tuesday, 30 * time.Minute, at(tuesday, 13, 45), at(tuesday, 13, 30)},
		{"other day ignores now", tuesday.AddDate(0, 0, 1), 30 * time.Minute, at(tuesday, 13, 45), at(tuesday.AddDate(0, 0, 1), 9, 0)},
	}
	for _, tc := range cases {
		got, err := FindSlot(busy, tc.day, tc.length, DefaultPolicy(), tc.now)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}

	if _, err := FindSlot(nil, tuesday, 0, DefaultPolicy(), monday); !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	late := Policy{DefaultStart: model.NewClock(22, 0), LatestStart: model.NewClock(22, 30), Step: 30 * time.Minute}
	wall := []model.Event{{Title: "late", Start: at(tuesday, 21, 0), End: at(tuesday, 23, 0)}}
	if _, err := FindSlot(wall, tuesday, time.Hour, late, monday); !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("expected ErrNoFreeSlot, got %v", err)
	}
}
