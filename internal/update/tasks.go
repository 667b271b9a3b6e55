package update

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/planner/internal/commands"
	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/tasks"
	"github.com/sandeepkv93/planner/internal/views"
)

func (m *Model) taskHandlers() commands.Handlers {
	return commands.Handlers{
		commands.TypeAdd:    m.addTask,
		commands.TypeModify: m.modifyTask,
		commands.TypeDone: func(cmd commands.Command) (commands.Result, error) {
			return m.withTask(cmd, "Task ID to mark as done", nil, func(m *Model, task model.Task, _ []string) (string, error) {
				next, err := m.deps.Scheduler.CompleteTask(m.ctx(), task.ID)
				if err != nil {
					return "", err
				}
				if next != nil {
					return fmt.Sprintf("completed %q, next one on %s", task.Title, next.Day), nil
				}
				return fmt.Sprintf("completed %q", task.Title), nil
			})
		},
		commands.TypeDelete: func(cmd commands.Command) (commands.Result, error) {
			return m.withTask(cmd, "Task ID to delete", nil, func(m *Model, task model.Task, _ []string) (string, error) {
				_, n, err := m.deps.Scheduler.DeleteTask(m.ctx(), task.ID)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("deleted %q (%d event(s) removed)", task.Title, n), nil
			})
		},
		commands.TypeSchedule: func(cmd commands.Command) (commands.Result, error) {
			return m.withTask(cmd, "Task ID to schedule", []question{
				{Label: "Time (e.g., 2:30 PM), empty to auto-schedule"},
			}, func(m *Model, task model.Task, a []string) (string, error) {
				var at *model.Clock
				if a[0] != "" {
					c, err := model.ParseClock(a[0])
					if err != nil {
						return "", err
					}
					at = &c
				}
				ev, err := m.deps.Scheduler.Schedule(m.ctx(), task.ID, at)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("scheduled %q on %s-%s", ev.Title, ev.Start.Format("Mon Jan 2 15:04"), ev.End.Format("15:04")), nil
			})
		},
		commands.TypeUnschedule: func(cmd commands.Command) (commands.Result, error) {
			return m.withTask(cmd, "Task ID to unschedule", nil, func(m *Model, task model.Task, _ []string) (string, error) {
				n, err := m.deps.Scheduler.Unschedule(m.ctx(), task.ID)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("unscheduled %q (%d event(s) removed)", task.Title, n), nil
			})
		},
		commands.TypeFree: func(cmd commands.Command) (commands.Result, error) {
			return m.withTask(cmd, "Task ID to find a slot for", nil, func(m *Model, task model.Task, _ []string) (string, error) {
				at, err := m.deps.Scheduler.Preview(m.ctx(), task.ID)
				if err != nil {
					return "", err
				}
				end := at.Add(task.Duration())
				return fmt.Sprintf("next free slot for %q: %s-%s", task.Title, at.Format("Mon Jan 2 15:04"), end.Format("15:04")), nil
			})
		},
	}
}

// withTask resolves a display index of the task table before running fn.
func (m *Model) withTask(cmd commands.Command, label string, rest []question, fn func(m *Model, task model.Task, answers []string) (string, error)) (commands.Result, error) {
	return m.indexed(cmd, label, rest, func(m *Model, index int, a []string) (string, error) {
		task, err := m.deps.Tasks.Resolve(m.ctx(), index)
		if err != nil {
			return "", err
		}
		return fn(m, task, a)
	})
}

func (m *Model) addTask(commands.Command) (commands.Result, error) {
	return m.ask([]question{
		{Label: "Task title"},
		{Label: "Day of the week (e.g., Monday)", Default: "unassigned"},
		{Label: "Time required (in minutes)"},
		{Label: "Recurrence (none, daily, weekly)", Default: string(model.RecurrenceNone)},
	}, func(m *Model, a []string) (string, error) {
		day, err := model.ParseDay(a[1])
		if err != nil {
			return "", err
		}
		minutes, err := parseMinutes(a[2])
		if err != nil {
			return "", err
		}
		rec, err := model.ParseRecurrence(a[3])
		if err != nil {
			return "", err
		}
		task, err := m.deps.Tasks.Add(m.ctx(), tasks.AddInput{
			Title:           a[0],
			Day:             day,
			DurationMinutes: minutes,
			Recurrence:      rec,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added task %q", task.Title), nil
	})
}

func (m *Model) modifyTask(cmd commands.Command) (commands.Result, error) {
	return m.withTask(cmd, "Task ID to modify", []question{
		{Label: "New task title (empty keeps)"},
		{Label: "New day of the week (empty keeps)"},
		{Label: "New time required in minutes (empty keeps)"},
		{Label: "New recurrence (empty keeps)"},
	}, func(m *Model, task model.Task, a []string) (string, error) {
		in := tasks.ModifyInput{Title: a[0]}
		if a[1] != "" {
			day, err := model.ParseDay(a[1])
			if err != nil {
				return "", err
			}
			in.Day = &day
		}
		if a[2] != "" {
			minutes, err := parseMinutes(a[2])
			if err != nil {
				return "", err
			}
			in.DurationMinutes = minutes
		}
		if a[3] != "" {
			rec, err := model.ParseRecurrence(a[3])
			if err != nil {
				return "", err
			}
			in.Recurrence = rec
		}
		updated, err := m.deps.Tasks.Modify(m.ctx(), task.ID, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("updated task %q", updated.Title), nil
	})
}

func taskRows(entries []tasks.Entry) []views.TaskRowData {
	rows := make([]views.TaskRowData, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, views.TaskRowData{
			Index:      e.Index,
			Title:      e.Task.Title,
			Day:        e.Task.Day.String(),
			Minutes:    e.Task.DurationMinutes,
			Status:     e.Task.Status(),
			Recurrence: string(e.Task.Recurrence),
		})
	}
	return rows
}

// agendaLines formats one day's events for the today screen.
func agendaLines(events []model.Event, now time.Time) []string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("%s-%s  %s (%s)", ev.Start.Format("15:04"), ev.End.Format("15:04"), ev.Title, ev.StatusAt(now)))
	}
	return lines
}
