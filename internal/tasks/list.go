package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/storage"
)

var (
	ErrNotFound = errors.New("tasks: task not found")
	ErrBadIndex = errors.New("tasks: index out of range")
)

// List is the task collection. Like the calendar it is loaded and rewritten
// whole on every operation.
type List struct {
	repo  storage.TaskRepository
	log   *slog.Logger
	newID func() string
}

func NewList(repo storage.TaskRepository, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &List{repo: repo, log: logger, newID: uuid.NewString}
}

// Load returns the stored tasks, assigning ids to legacy entries. A corrupt
// document yields an empty list and an error wrapping storage.ErrCorrupt.
func (l *List) Load(ctx context.Context) ([]model.Task, error) {
	tasks, err := l.repo.LoadTasks(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			l.log.Warn("task document is corrupt, starting empty", "err", err)
			return []model.Task{}, err
		}
		return nil, fmt.Errorf("tasks: load: %w", err)
	}
	upgraded := 0
	for i := range tasks {
		if strings.TrimSpace(tasks[i].ID) == "" {
			tasks[i].ID = l.newID()
			upgraded++
		}
	}
	if upgraded > 0 {
		l.log.Info("assigned ids to legacy tasks", "count", upgraded)
		if err := l.Save(ctx, tasks); err != nil {
			return tasks, err
		}
	}
	return tasks, nil
}

func (l *List) current(ctx context.Context) ([]model.Task, error) {
	tasks, err := l.Load(ctx)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return nil, err
	}
	return tasks, nil
}

func (l *List) Save(ctx context.Context, tasks []model.Task) error {
	if err := l.repo.SaveTasks(ctx, tasks); err != nil {
		l.log.Error("save tasks failed", "err", err)
		return fmt.Errorf("tasks: save: %w", err)
	}
	return nil
}

type AddInput struct {
	Title           string
	Day             model.Day
	DurationMinutes int
	Recurrence      model.Recurrence
}

func (l *List) Add(ctx context.Context, in AddInput) (model.Task, error) {
	if in.Recurrence == "" {
		in.Recurrence = model.RecurrenceNone
	}
	task := model.Task{
		ID:              l.newID(),
		Title:           strings.TrimSpace(in.Title),
		Day:             in.Day,
		DurationMinutes: in.DurationMinutes,
		Recurrence:      in.Recurrence,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	tasks, err := l.current(ctx)
	if err != nil {
		return model.Task{}, err
	}
	tasks = append(tasks, task)
	if err := l.Save(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// ModifyInput holds optional changes. Day is a pointer because unassigned is
// a legitimate new value.
type ModifyInput struct {
	Title           string
	Day             *model.Day
	DurationMinutes int
	Recurrence      model.Recurrence
}

func (l *List) Modify(ctx context.Context, id string, in ModifyInput) (model.Task, error) {
	return l.update(ctx, id, func(t *model.Task) {
		if title := strings.TrimSpace(in.Title); title != "" {
			t.Title = title
		}
		if in.Day != nil {
			t.Day = *in.Day
		}
		if in.DurationMinutes != 0 {
			t.DurationMinutes = in.DurationMinutes
		}
		if in.Recurrence != "" {
			t.Recurrence = in.Recurrence
		}
	})
}

// SetScheduled records whether the task currently has a calendar event.
func (l *List) SetScheduled(ctx context.Context, id string, scheduled bool) (model.Task, error) {
	return l.update(ctx, id, func(t *model.Task) { t.Scheduled = scheduled })
}

func (l *List) update(ctx context.Context, id string, mutate func(*model.Task)) (model.Task, error) {
	tasks, err := l.current(ctx)
	if err != nil {
		return model.Task{}, err
	}
	idx := indexOf(tasks, id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	task := tasks[idx]
	mutate(&task)
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	tasks[idx] = task
	if err := l.Save(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (l *List) Get(ctx context.Context, id string) (model.Task, error) {
	tasks, err := l.current(ctx)
	if err != nil {
		return model.Task{}, err
	}
	idx := indexOf(tasks, id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tasks[idx], nil
}

// Remove deletes the task and, when successor is non-nil, appends it in the
// same write. Successors without an id get a fresh one.
func (l *List) Remove(ctx context.Context, id string, successor *model.Task) (model.Task, error) {
	tasks, err := l.current(ctx)
	if err != nil {
		return model.Task{}, err
	}
	idx := indexOf(tasks, id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := tasks[idx]
	tasks = append(tasks[:idx], tasks[idx+1:]...)
	if successor != nil {
		next := *successor
		if next.ID == "" {
			next.ID = l.newID()
		}
		tasks = append(tasks, next)
	}
	if err := l.Save(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return removed, nil
}

// Entry is one row of the task table.
type Entry struct {
	Index int
	Task  model.Task
}

func (l *List) Listing(ctx context.Context) ([]Entry, error) {
	tasks, err := l.current(ctx)
	if err != nil {
		return nil, err
	}
	return BuildListing(tasks), nil
}

// BuildListing orders tasks Monday first with unassigned tasks last, keeping
// store order within a day. Indexes start at 1.
func BuildListing(tasks []model.Task) []Entry {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dayRank(sorted[i].Day) < dayRank(sorted[j].Day)
	})
	out := make([]Entry, len(sorted))
	for i, t := range sorted {
		out[i] = Entry{Index: i + 1, Task: t}
	}
	return out
}

// Resolve maps a 1-based display index to its task.
func (l *List) Resolve(ctx context.Context, index int) (model.Task, error) {
	entries, err := l.Listing(ctx)
	if err != nil {
		return model.Task{}, err
	}
	if index < 1 || index > len(entries) {
		return model.Task{}, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	return entries[index-1].Task, nil
}

func dayRank(d model.Day) int {
	if off := d.Offset(); off >= 0 {
		return off
	}
	return len(model.Week)
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
