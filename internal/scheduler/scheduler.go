package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/planner/internal/calendar"
	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/tasks"
)

type Options struct {
	Policy Policy
	Now    func() time.Time
	Logger *slog.Logger
}

// Scheduler owns the operations that touch both the calendar and the task
// list.
type Scheduler struct {
	cal    *calendar.Store
	tasks  *tasks.List
	policy Policy
	now    func() time.Time
	log    *slog.Logger
}

func New(cal *calendar.Store, list *tasks.List, opts Options) *Scheduler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		cal:    cal,
		tasks:  list,
		policy: opts.Policy.normalized(),
		now:    opts.Now,
		log:    opts.Logger,
	}
}

func (s *Scheduler) Policy() Policy { return s.policy }

// TargetDate is the date of the task's weekday within the current week.
func (s *Scheduler) TargetDate(task model.Task) (time.Time, error) {
	if task.Day == model.DayUnassigned {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoDay, task.Title)
	}
	return model.WeekStart(s.now()).AddDate(0, 0, task.Day.Offset()), nil
}

// Schedule places the task on the calendar. With at nil the first free slot is
// searched; otherwise at is used as is and must not conflict. Events placed
// for the task earlier are replaced.
func (s *Scheduler) Schedule(ctx context.Context, taskID string, at *model.Clock) (model.Event, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return model.Event{}, err
	}
	day, err := s.TargetDate(task)
	if err != nil {
		return model.Event{}, err
	}
	events, err := s.loadEvents(ctx)
	if err != nil {
		return model.Event{}, err
	}
	prior, rest := calendar.SplitLinked(events, task.ID, legacyTitle(task))

	start, err := s.place(rest, day, task, at)
	if err != nil {
		return model.Event{}, err
	}
	ev := model.Event{
		ID:         s.cal.NewID(),
		Title:      task.Title,
		Start:      start,
		End:        start.Add(task.Duration()),
		Recurrence: task.Recurrence,
		TaskID:     task.ID,
	}
	if err := s.cal.Save(ctx, append(rest, ev)); err != nil {
		return model.Event{}, err
	}
	if _, err := s.tasks.SetScheduled(ctx, task.ID, true); err != nil {
		return model.Event{}, err
	}
	s.log.Info("task scheduled", "task", task.Title, "start", ev.Start.Format(time.DateTime), "replaced", len(prior))
	return ev, nil
}

// Preview reports where Schedule would auto-place the task without
// committing anything.
func (s *Scheduler) Preview(ctx context.Context, taskID string) (time.Time, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return time.Time{}, err
	}
	day, err := s.TargetDate(task)
	if err != nil {
		return time.Time{}, err
	}
	events, err := s.loadEvents(ctx)
	if err != nil {
		return time.Time{}, err
	}
	_, rest := calendar.SplitLinked(events, task.ID, legacyTitle(task))
	return FindSlot(rest, day, task.Duration(), s.policy, s.now())
}

func (s *Scheduler) place(events []model.Event, day time.Time, task model.Task, at *model.Clock) (time.Time, error) {
	if at == nil {
		return FindSlot(events, day, task.Duration(), s.policy, s.now())
	}
	start := at.On(day)
	now := s.now()
	if model.SameDate(day, now) && start.Before(now) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInPast, start.Format("Mon 15:04"))
	}
	if hit := conflict(events, start, start.Add(task.Duration())); hit != nil {
		return time.Time{}, fmt.Errorf("%w: %q %s-%s", ErrConflict, hit.Title, hit.Start.Format("15:04"), hit.End.Format("15:04"))
	}
	return start, nil
}

// Unschedule removes the task's events and clears its scheduled flag.
func (s *Scheduler) Unschedule(ctx context.Context, taskID string) (int, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return 0, err
	}
	n, err := s.cal.RemoveLinked(ctx, task.ID, legacyTitle(task))
	if err != nil {
		return 0, err
	}
	if _, err := s.tasks.SetScheduled(ctx, task.ID, false); err != nil {
		return n, err
	}
	return n, nil
}

// DeleteTask removes the task together with the events placed for it. A task
// that was never placed leaves the calendar untouched.
func (s *Scheduler) DeleteTask(ctx context.Context, taskID string) (model.Task, int, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, 0, err
	}
	n, err := s.cal.RemoveLinked(ctx, task.ID, legacyTitle(task))
	if err != nil {
		return model.Task{}, 0, err
	}
	if _, err := s.tasks.Remove(ctx, task.ID, nil); err != nil {
		return model.Task{}, n, err
	}
	s.log.Info("task deleted", "task", task.Title, "events_removed", n)
	return task, n, nil
}

// CompleteTask removes the task, marks its first open event completed and,
// for daily or weekly tasks, appends the successor. The successor is
// returned when one was created.
func (s *Scheduler) CompleteTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.cal.MarkTaskCompleted(ctx, task.ID, legacyTitle(task)); err != nil {
		return nil, err
	}
	var next *model.Task
	if succ, ok := task.Successor(s.now()); ok {
		next = &succ
	}
	if _, err := s.tasks.Remove(ctx, task.ID, next); err != nil {
		return nil, err
	}
	s.log.Info("task completed", "task", task.Title, "successor", next != nil)
	return next, nil
}

func (s *Scheduler) loadEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.cal.Load(ctx)
	if err != nil && events == nil {
		return nil, err
	}
	return events, nil
}

// legacyTitle enables the title fallback only for tasks already flagged as
// scheduled, whose events may predate task ids.
func legacyTitle(task model.Task) string {
	if task.Scheduled {
		return task.Title
	}
	return ""
}
